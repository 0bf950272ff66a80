package tui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zerebom/revural/internal/core/styles"
)

type toastTickMsg time.Time

func scheduleToastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(t time.Time) tea.Msg {
		return toastTickMsg(t)
	})
}

// ToastView renders the toast stack, oldest at top.
type ToastView struct {
	controller *ToastController
}

func NewToastView(controller *ToastController) *ToastView {
	return &ToastView{controller: controller}
}

func (v *ToastView) View() string {
	toasts := v.controller.Toasts()
	if len(toasts) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		rendered = append(rendered, renderToast(t))
	}
	return strings.Join(rendered, "\n")
}

func renderToast(t toast) string {
	var icon string
	var style lipgloss.Style

	switch t.level {
	case toastError:
		icon = styles.IconError
		style = styles.ToastErrorStyle
	case toastSuccess:
		icon = styles.IconCheck
		style = styles.ToastSuccessStyle
	default:
		icon = styles.IconPending
		style = styles.ToastInfoStyle
	}

	return style.Width(toastWidth).Render(icon + " " + t.message)
}

// Place right-aligns the toast stack within width. It returns "" when no
// toast is active.
func (v *ToastView) Place(width int) string {
	content := v.View()
	if content == "" {
		return ""
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Right, content)
}
