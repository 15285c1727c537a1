package bot

import (
	"fmt"
	"html"
	"strings"
	"time"
	"unicode"

	"project-planner/internal/model"
	"project-planner/internal/scheduler"
	"project-planner/internal/service"
)

const (
	iconDefault = "🟢"
	iconDue     = "⏳"
	iconOverdue = "⚠️"
	iconDone    = "✅"
)

var weekdayShort = [7]string{"Вс", "Пн", "Вт", "Ср", "Чт", "Пт", "Сб"}

func formatProjectList(projects []model.ProjectStats) string {
	var b strings.Builder
	b.WriteString("📁 <b>Проекты</b>\n\n")
	for _, p := range projects {
		b.WriteString(fmt.Sprintf("<b>#%d</b> %s · %d/%d %s\n", p.ID, escape(normalizeTitle(p.Title)), p.CompletedTaskCount, p.TaskCount, iconDone))
		if p.Description != nil {
			b.WriteString(fmt.Sprintf("   📝 %s\n", escape(*p.Description)))
		}
	}
	return strings.TrimSpace(b.String())
}

func formatProject(project model.Project, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📁 <b>#%d %s</b>\n", project.ID, escape(normalizeTitle(project.Title))))
	if project.Description != nil {
		b.WriteString(fmt.Sprintf("📝 %s\n", escape(*project.Description)))
	}
	b.WriteByte('\n')

	if len(project.Tasks) == 0 {
		b.WriteString(fmt.Sprintf("Задач пока нет. Добавь первую: /newtask %d", project.ID))
		return b.String()
	}
	for _, task := range project.Tasks {
		b.WriteString(formatTask(task, now))
	}
	return strings.TrimSpace(b.String())
}

// formatTask renders one task line. Due dates are calendar dates, so a task
// due today is not overdue until the day is over.
func formatTask(task model.Task, now time.Time) string {
	var b strings.Builder
	daysLeft := 0
	if task.DueDate != nil {
		daysLeft = scheduler.DaysBetween(now, *task.DueDate)
	}

	icon := iconDefault
	switch {
	case task.IsCompleted:
		icon = iconDone
	case task.DueDate != nil && daysLeft < 0:
		icon = iconOverdue
	case task.DueDate != nil && daysLeft <= 2:
		icon = iconDue
	}

	title := escape(normalizeTitle(task.Title))
	if task.IsCompleted {
		title = "<s>" + title + "</s>"
	}
	b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", icon, task.ID, title))

	if task.DueDate != nil && !task.IsCompleted {
		due := task.DueDate.Format(dateLayout)
		switch {
		case daysLeft < 0:
			b.WriteString(fmt.Sprintf("   ⏰ Срок: %s — <b>просрочено</b>\n", due))
		case daysLeft == 0:
			b.WriteString(fmt.Sprintf("   ⏰ Срок: %s · <b>сегодня</b>\n", due))
		default:
			b.WriteString(fmt.Sprintf("   ⏰ Срок: %s · осталось %d дн.\n", due, daysLeft))
		}
	}
	return b.String()
}

func formatSchedule(ps *service.ProjectSchedule, req scheduler.Request) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("📅 <b>План: %s</b>\n", escape(normalizeTitle(ps.Project.Title))))
	b.WriteString(fmt.Sprintf("⏱ %d ч. в день · %s · с %s\n\n", req.HoursPerDay, formatWeekdays(req.WorkingDays), req.StartDate.Format(dateLayout)))

	for _, st := range ps.Result.Tasks {
		b.WriteString(fmt.Sprintf("%s <b>#%d</b> %s\n", service.PriorityIcon(st.Priority), st.TaskID, escape(normalizeTitle(st.Title))))
		b.WriteString(fmt.Sprintf("   %s · %d ч. · приоритет: %s\n", formatDateSpan(st.StartDate, st.EndDate), st.EstimatedHours, priorityLabel(st.Priority)))
	}
	if len(ps.Result.Tasks) > 0 {
		b.WriteString(fmt.Sprintf("\nВсего: <b>%d ч.</b>\n", ps.Result.TotalEstimatedHours))
	}
	b.WriteString(fmt.Sprintf("<i>%s</i>", escape(ps.Result.Message)))
	return b.String()
}

func formatWeekdays(days []time.Weekday) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= time.Sunday && d <= time.Saturday {
			names = append(names, weekdayShort[d])
		}
	}
	return strings.Join(names, ", ")
}

func formatDateSpan(start, end time.Time) string {
	if start.Equal(end) {
		return fmt.Sprintf("%s %s", weekdayShort[start.Weekday()], start.Format(dateLayout))
	}
	return fmt.Sprintf("%s %s → %s %s", weekdayShort[start.Weekday()], start.Format(dateLayout), weekdayShort[end.Weekday()], end.Format(dateLayout))
}

func priorityLabel(p scheduler.Priority) string {
	switch p {
	case scheduler.PriorityHigh:
		return "высокий"
	case scheduler.PriorityLow:
		return "низкий"
	default:
		return "средний"
	}
}

func shortTitle(title string, maxLen int) string {
	clean := strings.TrimSpace(strings.ReplaceAll(title, "\n", " "))
	clean = normalizeTitle(clean)
	runes := []rune(clean)
	if len(runes) <= maxLen {
		return clean
	}
	if maxLen <= 1 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-1]) + "…"
}

func normalizeTitle(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	runes := []rune(value)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func escape(s string) string {
	return html.EscapeString(s)
}
