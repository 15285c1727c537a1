package bot

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"project-planner/internal/config"
	"project-planner/internal/metrics"
	"project-planner/internal/model"
	"project-planner/internal/repository"
	"project-planner/internal/service"
)

type conversationStage int

const (
	stageNone conversationStage = iota
	stageProject
	stageTitle
	stageDueDate
)

type conversationState struct {
	stage     conversationStage
	projectID uint
	input     service.TaskInput
}

type confirmationAction int

const (
	actionDeleteTask confirmationAction = iota
	actionDeleteProject
)

type confirmationRequest struct {
	id     uint
	action confirmationAction
}

// Services groups what the bot calls into.
type Services struct {
	Users    *repository.UserRepository
	Projects *service.ProjectService
	Tasks    *service.TaskService
	Schedule *service.ScheduleService
	Digest   *service.DigestService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api           *tgbotapi.BotAPI
	svc           Services
	defaults      scheduleDefaults
	limiter       *rate.Limiter
	log           zerolog.Logger
	conversations map[int64]*conversationState
	confirmations map[int64]confirmationRequest
	mu            sync.Mutex
}

func New(cfg config.Config, svc Services, log zerolog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log = log.With().Str("component", "bot").Logger()
	log.Info().Str("account", api.Self.UserName).Msg("bot authorized")

	burst := int(cfg.SendRatePerSec)
	if burst < 1 {
		burst = 1
	}

	return &Bot{
		api: api,
		svc: svc,
		defaults: scheduleDefaults{
			hoursPerDay: cfg.Schedule.HoursPerDay,
			workingDays: cfg.Schedule.Weekdays(),
		},
		limiter:       rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), burst),
		log:           log,
		conversations: make(map[int64]*conversationState),
		confirmations: make(map[int64]confirmationRequest),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	b.log.Info().Msg("start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				b.log.Error().Err(err).Msg("handle callback")
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				b.log.Error().Err(err).Int64("from", update.Message.From.ID).Msg("handle message")
			}
		}
	}

	return ctx.Err()
}

// SendDigests sends the plan digest to every known user with open tasks.
func (b *Bot) SendDigests(ctx context.Context) error {
	users, err := b.svc.Users.ListAll(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, user := range users {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		text, err := b.svc.Digest.Build(ctx, user, now)
		if err != nil {
			b.log.Error().Err(err).Uint("user_id", user.ID).Msg("build digest")
			continue
		}
		if text == "" {
			continue
		}
		if err := b.sendText(ctx, user.TelegramID, text); err != nil {
			b.log.Error().Err(err).Uint("user_id", user.ID).Msg("send digest")
		}
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if !msg.IsCommand() && isCancelDialogInput(msg.Text) {
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		return b.sendText(ctx, msg.Chat.ID, "⏪ Ввод отменён.")
	}

	if !msg.IsCommand() {
		if handled, err := b.handleMenuAlias(ctx, msg); handled {
			return err
		}
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return err
	}

	if msg.IsCommand() {
		b.log.Debug().Int64("from", msg.From.ID).Str("command", msg.Command()).Str("args", msg.CommandArguments()).Msg("command")
		return b.handleCommand(ctx, msg, user)
	}

	if pending, ok := b.getConfirmation(msg.From.ID); ok {
		return b.handleConfirmationResponse(ctx, msg, user, pending)
	}

	if state := b.getConversation(msg.From.ID); state != nil {
		return b.handleConversation(ctx, msg, user, state)
	}

	return b.sendText(ctx, msg.Chat.ID, "Я пока не понял сообщение. Набери /projects, чтобы увидеть проекты, или /help для списка команд.")
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *model.User) error {
	command := msg.Command()
	args := msg.CommandArguments()
	chatID := msg.Chat.ID

	var err error
	switch command {
	case "start":
		err = b.handleStart(ctx, msg)
	case "help":
		err = b.handleHelp(ctx, chatID)
	case "projects":
		err = b.handleProjects(ctx, chatID, user)
	case "newproject":
		err = b.handleNewProject(ctx, chatID, user, args)
	case "project":
		err = b.handleProject(ctx, chatID, user, args)
	case "renameproject":
		err = b.handleRenameProject(ctx, chatID, user, args)
	case "deleteproject":
		err = b.handleDeleteProject(ctx, msg, user, args)
	case "newtask":
		err = b.startNewTaskConversation(ctx, msg, user, args)
	case "edittask":
		err = b.handleEditTask(ctx, chatID, user, args)
	case "toggle":
		err = b.handleToggle(ctx, chatID, user, args)
	case "deltask":
		err = b.handleDeleteTask(ctx, msg, user, args)
	case "schedule":
		err = b.handleSchedule(ctx, chatID, user, args)
	case "report":
		err = b.handleReport(ctx, chatID, user)
	case "cancel":
		b.clearConversation(msg.From.ID)
		b.clearConfirmation(msg.From.ID)
		err = b.sendText(ctx, chatID, "⏪ Ввод отменён.")
	default:
		return b.sendText(ctx, chatID, "Команда не поддерживается. Загляни в /help.")
	}
	metrics.RecordCommand(command)
	return err
}

func (b *Bot) handleMenuAlias(ctx context.Context, msg *tgbotapi.Message) (bool, error) {
	text := strings.TrimSpace(strings.ToLower(msg.Text))
	switch text {
	case strings.ToLower(menuLabelProjects), strings.ToLower(menuLabelNewProject),
		strings.ToLower(menuLabelReport), strings.ToLower(menuLabelHelp):
	default:
		return false, nil
	}

	user, err := b.ensureUser(ctx, msg.From)
	if err != nil {
		return true, err
	}
	switch text {
	case strings.ToLower(menuLabelProjects):
		return true, b.handleProjects(ctx, msg.Chat.ID, user)
	case strings.ToLower(menuLabelNewProject):
		return true, b.sendText(ctx, msg.Chat.ID, "Создай проект командой: /newproject Название | описание")
	case strings.ToLower(menuLabelReport):
		return true, b.handleReport(ctx, msg.Chat.ID, user)
	default:
		return true, b.handleHelp(ctx, msg.Chat.ID)
	}
}

func (b *Bot) ensureUser(ctx context.Context, from *tgbotapi.User) (*model.User, error) {
	return b.svc.Users.UpsertFromTelegram(ctx, from.ID, from.FirstName, from.LastName, from.UserName)
}

func (b *Bot) send(ctx context.Context, c tgbotapi.Chattable) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := b.api.Send(c)
	return err
}

func (b *Bot) sendText(ctx context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	return b.send(ctx, msg)
}

func (b *Bot) sendWithReplyMarkup(ctx context.Context, chatID int64, text string, markup interface{}) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = markup
	return b.send(ctx, msg)
}

func (b *Bot) ackCallback(ctx context.Context, id string) {
	if err := b.limiter.Wait(ctx); err != nil {
		return
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(id, "")); err != nil {
		b.log.Warn().Err(err).Msg("callback ack")
	}
}

func (b *Bot) getConfirmation(userID int64) (confirmationRequest, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	req, ok := b.confirmations[userID]
	return req, ok
}

func (b *Bot) setConfirmation(userID int64, req confirmationRequest) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.confirmations[userID] = req
}

func (b *Bot) clearConfirmation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.confirmations, userID)
}

func (b *Bot) setConversation(userID int64, state *conversationState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[userID] = state
}

func (b *Bot) getConversation(userID int64) *conversationState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conversations[userID]
}

func (b *Bot) clearConversation(userID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conversations, userID)
}
