package presentation

import "dealer-admin/internal/common/i18n"

// EmptyState is shown in place of a step whose data has not been entered.
type EmptyState struct {
	Step    string `json:"step"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

var stepTitles = map[string][2]string{
	"main_info": {"Main information", "المعلومات الأساسية"},
	"specs":     {"Specifications", "المواصفات"},
	"seo":       {"SEO", "تحسين محركات البحث"},
}

func StepEmptyState(step string, locale i18n.Locale) EmptyState {
	title := step
	if t, ok := stepTitles[step]; ok {
		title = locale.Pick(t[0], t[1])
	}
	return EmptyState{
		Step:    step,
		Title:   title,
		Message: locale.Pick("Nothing has been added to this step yet.", "لم تتم إضافة أي بيانات لهذه الخطوة بعد."),
	}
}
