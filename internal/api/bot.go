package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	app "github.com/nathaniel-sheetz/BananaVision/internal/application"
	"github.com/nathaniel-sheetz/BananaVision/internal/domain/entity"
	"github.com/nathaniel-sheetz/BananaVision/internal/infrastructure/imagefile"
)

const (
	msgStart = `👋 Привет! Я бот для оценки спелости бананов.

📸 Отправьте мне фото бананов, и я посчитаю зелёные, жёлтые и пятнистые.

📋 Команды:
/check — начать проверку
/mode — выбрать режим анализа
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото бананов
2️⃣ Бот найдёт бананы и оценит их спелость
3️⃣ Вы получите отчёт и фото с обведёнными бананами

🔧 Режимы (/mode <режим>):
• pixel — доли по площади
• banana — каждый банан отдельно
• region — каждая связка целиком

💡 Рекомендации:
• Снимайте при хорошем освещении
• Используйте однотонный фон без жёлтого и зелёного
• Фото должно быть чётким`

	msgAwaitingPhoto   = "📸 Отправьте фото бананов."
	msgCancelled       = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото бананов."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgNoBananas       = "🤷 Бананы на фото не найдены."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgModeFormat      = "🔧 Текущий режим: %s\nДоступные: pixel, banana, region"
	msgModeChanged     = "✅ Режим анализа: %s"
	msgModeUnknown     = "❓ Неизвестный режим %q. Доступные: pixel, banana, region"
)

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	users    *app.UserService
	ripeness *app.RipenessService
	http     *http.Client
	log      zerolog.Logger
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, ripeness *app.RipenessService, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log = log.With().Str("component", "telegram").Logger()
	log.Info().Str("account", api.Self.UserName).Msg("authorized")

	return &Bot{
		api:      api,
		users:    users,
		ripeness: ripeness,
		http:     &http.Client{Timeout: 30 * time.Second},
		log:      log,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = b.users.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = b.users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	case "mode":
		err = b.handleMode(ctx, msg)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		b.log.Error().Err(err).Int64("user_id", userID).Str("command", msg.Command()).Msg("command failed")
	}
}

// handleMode показывает или меняет режим анализа
func (b *Bot) handleMode(ctx context.Context, msg *tgbotapi.Message) error {
	userID, chatID := msg.From.ID, msg.Chat.ID

	mode, err := parseModeArg(msg.CommandArguments())
	switch {
	case errors.Is(err, errNoMode):
		user, err := b.users.Get(ctx, userID, chatID)
		if err != nil {
			return err
		}
		b.sendMessage(chatID, fmt.Sprintf(msgModeFormat, user.Mode))
		return nil
	case err != nil:
		b.sendMessage(chatID, fmt.Sprintf(msgModeUnknown, strings.TrimSpace(msg.CommandArguments())))
		return nil
	}

	if _, err := b.users.SetMode(ctx, userID, chatID, mode); err != nil {
		return err
	}
	b.sendMessage(chatID, fmt.Sprintf(msgModeChanged, mode))
	return nil
}

// handlePhoto обрабатывает входящее фото
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	b.sendMessage(chatID, msgProcessing)

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		b.log.Error().Err(err).Msg("download photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	out, err := b.ripeness.ProcessPhoto(ctx, msg.From.ID, chatID, imageData)
	if err != nil {
		b.log.Error().Err(err).Int("bytes", len(imageData)).Msg("process photo")
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	result := out.Analysis.Result
	if result.Total == 0 {
		b.sendMessage(chatID, msgNoBananas)
		return
	}

	b.sendMessage(chatID, out.Analysis.Report)
	if out.Highlighted == nil {
		return
	}

	data, err := imagefile.EncodeJPEG(out.Highlighted)
	if err != nil {
		b.log.Error().Err(err).Str("run_id", out.Analysis.RunID).Msg("encode highlighted photo")
		return
	}
	b.sendPhoto(chatID, data, caption(result))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send message")
	}
}

// sendPhoto отправляет JPEG с подписью
func (b *Bot) sendPhoto(chatID int64, data []byte, text string) {
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "bananas.jpg", Bytes: data})
	photo.Caption = text
	if _, err := b.api.Send(photo); err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("send photo")
	}
}

var errNoMode = errors.New("mode is not given")

// parseModeArg разбирает аргумент команды /mode
func parseModeArg(args string) (entity.Mode, error) {
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return "", errNoMode
	}
	return entity.ParseMode(fields[0])
}

// caption короткая подпись к фото с процентами по категориям
func caption(r *entity.AnalysisResult) string {
	parts := make([]string, 0, len(entity.Categories))
	for _, c := range entity.Categories {
		part := fmt.Sprintf("%s %.1f%%", categoryEmoji(c), r.Percentages.Get(c))
		if r.Mode.CountsObjects() {
			part += fmt.Sprintf(" (%d)", r.Counts.Get(c))
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " · ")
}

func categoryEmoji(c entity.Category) string {
	switch c {
	case entity.CategoryGreen:
		return "🟢"
	case entity.CategoryYellowClean:
		return "🟡"
	case entity.CategoryYellowSpotted:
		return "🟤"
	default:
		return "❔"
	}
}
