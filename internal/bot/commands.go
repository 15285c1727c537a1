package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"project-planner/internal/model"
	"project-planner/internal/scheduler"
	"project-planner/internal/service"
)

const (
	msgProjectNotFound = "Проект не найден."
	msgTaskNotFound    = "Задача не найдена."
)

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	name := strings.TrimSpace(msg.From.FirstName)
	if name == "" {
		name = "друг"
	}

	text := fmt.Sprintf(
		"👋 Привет, %s!\n<b>Я веду твои проекты и помогаю разложить задачи по рабочим дням.</b>\n\n"+
			"• /newproject — создать проект\n"+
			"• /projects — список проектов\n"+
			"• /newtask — добавить задачу\n"+
			"• /schedule &lt;проект&gt; — построить план\n"+
			"• /help — все команды",
		escape(name),
	)
	return b.sendText(ctx, msg.Chat.ID, text)
}

func (b *Bot) handleHelp(ctx context.Context, chatID int64) error {
	text := "ℹ️ <b>Команды</b>\n" +
		"• /projects — проекты и прогресс\n" +
		"• /newproject Название | описание — новый проект\n" +
		"• /project &lt;id&gt; — задачи проекта\n" +
		"• /renameproject &lt;id&gt; Название | описание — переименовать\n" +
		"• /deleteproject &lt;id&gt; — удалить проект вместе с задачами\n" +
		"• /newtask [проект] — добавить задачу пошагово\n" +
		"• /edittask &lt;id&gt; Название | 2025-11-30 — изменить задачу («-» убирает срок)\n" +
		"• /toggle &lt;id&gt; — отметить выполненной или вернуть в работу\n" +
		"• /deltask &lt;id&gt; — удалить задачу\n" +
		"• /schedule &lt;проект&gt; [часы] [дни] [старт] — план, например <code>/schedule 3 6 1-5 2025-11-03</code>\n" +
		"   дни: 0 — воскресенье … 6 — суббота, «-» оставляет значение по умолчанию\n" +
		"• /report — план по всем проектам\n" +
		"• /cancel — отменить текущий ввод"
	return b.sendText(ctx, chatID, text)
}

func (b *Bot) handleProjects(ctx context.Context, chatID int64, user *model.User) error {
	projects, err := b.svc.Projects.List(ctx, user.ID)
	if err != nil {
		return b.sendText(ctx, chatID, fmt.Sprintf("Не удалось получить проекты: %s", escape(err.Error())))
	}
	if len(projects) == 0 {
		return b.sendText(ctx, chatID, "Проектов пока нет. Создай первый: /newproject Название")
	}
	return b.sendWithReplyMarkup(ctx, chatID, formatProjectList(projects), projectListKeyboard(projects))
}

func (b *Bot) handleNewProject(ctx context.Context, chatID int64, user *model.User, args string) error {
	title, description := splitPipe(args)
	if title == "" {
		return b.sendText(ctx, chatID, "Укажи название: /newproject Ремонт кухни | до конца месяца")
	}

	project, err := b.svc.Projects.Create(ctx, user.ID, service.ProjectInput{Title: title, Description: description})
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("✅ Проект <b>#%d %s</b> создан. Добавь задачи: /newtask %d", project.ID, escape(normalizeTitle(project.Title)), project.ID))
}

func (b *Bot) handleProject(ctx context.Context, chatID int64, user *model.User, args string) error {
	projectID, err := parseID(args)
	if err != nil {
		return b.sendText(ctx, chatID, "Укажи ID проекта: /project 3")
	}
	return b.sendProject(ctx, chatID, user, projectID)
}

func (b *Bot) sendProject(ctx context.Context, chatID int64, user *model.User, projectID uint) error {
	project, err := b.svc.Projects.Get(ctx, projectID, user.ID)
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}
	return b.sendWithReplyMarkup(ctx, chatID, formatProject(*project, time.Now()), projectKeyboard(*project))
}

func (b *Bot) handleRenameProject(ctx context.Context, chatID int64, user *model.User, args string) error {
	projectID, rest, err := splitIDAndRest(args)
	if err != nil || rest == "" {
		return b.sendText(ctx, chatID, "Формат: /renameproject 3 Новое название | описание")
	}
	title, description := splitPipe(rest)

	project, err := b.svc.Projects.Update(ctx, projectID, user.ID, service.ProjectInput{Title: title, Description: description})
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("✏️ Проект #%d теперь называется «%s».", project.ID, escape(normalizeTitle(project.Title))))
}

func (b *Bot) handleDeleteProject(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	projectID, err := parseID(args)
	if err != nil {
		return b.sendText(ctx, msg.Chat.ID, "Укажи ID проекта: /deleteproject 3")
	}
	project, err := b.svc.Projects.Get(ctx, projectID, user.ID)
	if err != nil {
		return b.sendText(ctx, msg.Chat.ID, userError(err))
	}

	b.setConfirmation(msg.From.ID, confirmationRequest{id: project.ID, action: actionDeleteProject})
	text := fmt.Sprintf("Удалить проект «%s» (#%d) и все его задачи (%d)?", escape(normalizeTitle(project.Title)), project.ID, len(project.Tasks))
	return b.sendWithReplyMarkup(ctx, msg.Chat.ID, text, confirmKeyboard())
}

func (b *Bot) startNewTaskConversation(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	b.clearConfirmation(msg.From.ID)

	if strings.TrimSpace(args) == "" {
		b.setConversation(msg.From.ID, &conversationState{stage: stageProject})
		return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "🆕 Новая задача.\n<b>Шаг 1:</b> в какой проект? Пришли его ID (список — /projects).", cancelKeyboard())
	}

	projectID, err := parseID(args)
	if err != nil {
		return b.sendText(ctx, msg.Chat.ID, "ID проекта должен быть числом: /newtask 3")
	}
	return b.askTaskTitle(ctx, msg, user, projectID)
}

func (b *Bot) askTaskTitle(ctx context.Context, msg *tgbotapi.Message, user *model.User, projectID uint) error {
	project, err := b.svc.Projects.Get(ctx, projectID, user.ID)
	if err != nil {
		b.clearConversation(msg.From.ID)
		return b.sendText(ctx, msg.Chat.ID, userError(err))
	}
	b.setConversation(msg.From.ID, &conversationState{stage: stageTitle, projectID: project.ID})
	text := fmt.Sprintf("🆕 Задача для проекта «%s».\n<b>Шаг 2:</b> как её назвать?", escape(normalizeTitle(project.Title)))
	return b.sendWithReplyMarkup(ctx, msg.Chat.ID, text, cancelKeyboard())
}

func (b *Bot) handleConversation(ctx context.Context, msg *tgbotapi.Message, user *model.User, state *conversationState) error {
	text := strings.TrimSpace(msg.Text)
	switch state.stage {
	case stageProject:
		projectID, err := parseID(text)
		if err != nil {
			return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "Пришли числовой ID проекта.", cancelKeyboard())
		}
		return b.askTaskTitle(ctx, msg, user, projectID)
	case stageTitle:
		if text == "" {
			return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "Название не может быть пустым.", cancelKeyboard())
		}
		state.input.Title = text
		state.stage = stageDueDate
		return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "⏰ <b>Шаг 3:</b> срок в формате <code>2025-11-30</code> (или «Пропустить»).", skipKeyboard())
	case stageDueDate:
		if !isSkipInput(text) {
			due, err := parseDueDate(text)
			if err != nil {
				return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "Не могу распознать дату. Используй формат <code>2025-11-30</code> или «Пропустить».", skipKeyboard())
			}
			state.input.DueDate = due
		}
		b.clearConversation(msg.From.ID)
		return b.finishTaskCreation(ctx, msg.Chat.ID, user, state.projectID, state.input)
	default:
		b.clearConversation(msg.From.ID)
		return b.sendText(ctx, msg.Chat.ID, "Диалог сброшен. Попробуй ещё раз через /newtask.")
	}
}

func (b *Bot) finishTaskCreation(ctx context.Context, chatID int64, user *model.User, projectID uint, input service.TaskInput) error {
	task, err := b.svc.Tasks.Create(ctx, projectID, user.ID, input)
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}

	var summary strings.Builder
	summary.WriteString("✅ <b>Задача сохранена</b>\n")
	summary.WriteString(fmt.Sprintf("• <b>ID:</b> %d\n", task.ID))
	summary.WriteString(fmt.Sprintf("• <b>Название:</b> %s\n", escape(normalizeTitle(task.Title))))
	if task.DueDate != nil {
		summary.WriteString(fmt.Sprintf("• <b>Срок:</b> %s\n", task.DueDate.Format(dateLayout)))
	}
	summary.WriteString(fmt.Sprintf("• <b>Оценка:</b> %d ч.\n", scheduler.EstimateHours(task.Title)))

	if err := b.sendText(ctx, chatID, strings.TrimSpace(summary.String())); err != nil {
		return err
	}
	return b.sendProject(ctx, chatID, user, projectID)
}

func (b *Bot) handleEditTask(ctx context.Context, chatID int64, user *model.User, args string) error {
	taskID, rest, err := splitIDAndRest(args)
	if err != nil || rest == "" {
		return b.sendText(ctx, chatID, "Формат: /edittask 12 Новое название | 2025-11-30")
	}
	title, rawDue := splitPipe(rest)
	due, err := parseDueDate(rawDue)
	if err != nil {
		return b.sendText(ctx, chatID, "Не могу распознать дату. Используй формат <code>2025-11-30</code> или «-», чтобы убрать срок.")
	}

	task, err := b.svc.Tasks.Update(ctx, taskID, user.ID, service.TaskInput{Title: title, DueDate: due})
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}
	return b.sendText(ctx, chatID, fmt.Sprintf("✏️ Задача обновлена:\n%s", formatTask(*task, time.Now())))
}

func (b *Bot) handleToggle(ctx context.Context, chatID int64, user *model.User, args string) error {
	taskID, err := parseID(args)
	if err != nil {
		return b.sendText(ctx, chatID, "Укажи ID задачи: /toggle 12")
	}
	return b.toggleTaskAndRefresh(ctx, chatID, user, taskID)
}

func (b *Bot) toggleTaskAndRefresh(ctx context.Context, chatID int64, user *model.User, taskID uint) error {
	task, err := b.svc.Tasks.Toggle(ctx, taskID, user.ID)
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}

	info := fmt.Sprintf("✅ Задача «%s» выполнена.", escape(normalizeTitle(task.Title)))
	if !task.IsCompleted {
		info = fmt.Sprintf("↩️ Задача «%s» снова в работе.", escape(normalizeTitle(task.Title)))
	}
	if err := b.sendText(ctx, chatID, info); err != nil {
		return err
	}
	return b.sendProject(ctx, chatID, user, task.ProjectID)
}

func (b *Bot) handleDeleteTask(ctx context.Context, msg *tgbotapi.Message, user *model.User, args string) error {
	taskID, err := parseID(args)
	if err != nil {
		return b.sendText(ctx, msg.Chat.ID, "Укажи ID задачи: /deltask 12")
	}
	return b.askDeleteTaskConfirmation(ctx, msg.Chat.ID, msg.From.ID, user, taskID)
}

func (b *Bot) askDeleteTaskConfirmation(ctx context.Context, chatID, fromID int64, user *model.User, taskID uint) error {
	task, err := b.svc.Tasks.Get(ctx, taskID, user.ID)
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}

	b.setConfirmation(fromID, confirmationRequest{id: task.ID, action: actionDeleteTask})
	text := fmt.Sprintf("Удалить задачу «%s» (#%d)?", escape(normalizeTitle(task.Title)), task.ID)
	return b.sendWithReplyMarkup(ctx, chatID, text, confirmKeyboard())
}

func (b *Bot) handleConfirmationResponse(ctx context.Context, msg *tgbotapi.Message, user *model.User, req confirmationRequest) error {
	text := strings.TrimSpace(msg.Text)
	switch {
	case isConfirmInput(text):
		b.clearConfirmation(msg.From.ID)
		if req.action == actionDeleteProject {
			if err := b.svc.Projects.Delete(ctx, req.id, user.ID); err != nil {
				return b.sendText(ctx, msg.Chat.ID, userError(err))
			}
			return b.sendText(ctx, msg.Chat.ID, fmt.Sprintf("🗑 Проект #%d удалён.", req.id))
		}
		task, err := b.svc.Tasks.Delete(ctx, req.id, user.ID)
		if err != nil {
			return b.sendText(ctx, msg.Chat.ID, userError(err))
		}
		if err := b.sendText(ctx, msg.Chat.ID, fmt.Sprintf("🗑 Задача «%s» удалена.", escape(normalizeTitle(task.Title)))); err != nil {
			return err
		}
		return b.sendProject(ctx, msg.Chat.ID, user, task.ProjectID)
	case isCancelInput(text):
		b.clearConfirmation(msg.From.ID)
		return b.sendText(ctx, msg.Chat.ID, "Удаление отменено.")
	default:
		return b.sendWithReplyMarkup(ctx, msg.Chat.ID, "Подтверди или отмени удаление.", confirmKeyboard())
	}
}

func (b *Bot) handleSchedule(ctx context.Context, chatID int64, user *model.User, args string) error {
	parsed, err := parseScheduleArgs(args, b.defaults, time.Now())
	if err != nil {
		if errors.Is(err, errNoID) {
			return b.sendText(ctx, chatID, "Укажи проект: /schedule 3 [часы] [дни] [старт]")
		}
		return b.sendText(ctx, chatID, fmt.Sprintf("Не получилось разобрать параметры: %s", escape(err.Error())))
	}
	return b.sendSchedule(ctx, chatID, user, parsed)
}

func (b *Bot) sendSchedule(ctx context.Context, chatID int64, user *model.User, args scheduleArgs) error {
	ps, err := b.svc.Schedule.Generate(ctx, args.projectID, user.ID, args.request)
	if err != nil {
		return b.sendText(ctx, chatID, userError(err))
	}
	return b.sendText(ctx, chatID, formatSchedule(ps, args.request))
}

func (b *Bot) handleReport(ctx context.Context, chatID int64, user *model.User) error {
	text, err := b.svc.Digest.Build(ctx, *user, time.Now())
	if err != nil {
		return b.sendText(ctx, chatID, fmt.Sprintf("Не удалось сформировать план: %s", escape(err.Error())))
	}
	if text == "" {
		text = "Открытых задач нет. Всё сделано! 🎉"
	}
	return b.sendText(ctx, chatID, text)
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	b.ackCallback(ctx, cb.ID)

	prefix, id, ok := parseCallback(cb.Data)
	if !ok {
		return nil
	}
	user, err := b.ensureUser(ctx, cb.From)
	if err != nil {
		return err
	}

	chatID := cb.Message.Chat.ID
	b.log.Debug().Int64("from", cb.From.ID).Str("action", prefix).Uint("id", id).Msg("callback")
	switch prefix {
	case cbOpenPrefix:
		return b.sendProject(ctx, chatID, user, id)
	case cbTogglePrefix:
		return b.toggleTaskAndRefresh(ctx, chatID, user, id)
	case cbDeletePrefix:
		return b.askDeleteTaskConfirmation(ctx, chatID, cb.From.ID, user, id)
	case cbSchedulePrefix:
		return b.sendSchedule(ctx, chatID, user, scheduleArgs{
			projectID: id,
			request: scheduler.Request{
				HoursPerDay: b.defaults.hoursPerDay,
				WorkingDays: b.defaults.workingDays,
				StartDate:   scheduler.DateOnly(time.Now()),
			},
		})
	}
	return nil
}

func parseCallback(data string) (string, uint, bool) {
	for _, prefix := range []string{cbOpenPrefix, cbTogglePrefix, cbDeletePrefix, cbSchedulePrefix} {
		if strings.HasPrefix(data, prefix) {
			id, err := parseID(strings.TrimPrefix(data, prefix))
			if err != nil {
				return "", 0, false
			}
			return prefix, id, true
		}
	}
	return "", 0, false
}

// userError turns a service error into a message for the chat.
func userError(err error) string {
	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		return msgProjectNotFound
	case errors.Is(err, service.ErrTaskNotFound):
		return msgTaskNotFound
	case errors.Is(err, service.ErrValidation):
		return fmt.Sprintf("Проверь ввод: %s", escape(strings.TrimPrefix(err.Error(), service.ErrValidation.Error()+": ")))
	case errors.Is(err, scheduler.ErrInvalidRequest):
		return fmt.Sprintf("Неверные параметры плана: %s", escape(strings.TrimPrefix(err.Error(), scheduler.ErrInvalidRequest.Error()+": ")))
	default:
		return fmt.Sprintf("Ошибка: %s", escape(err.Error()))
	}
}
