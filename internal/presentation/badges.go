package presentation

import "dealer-admin/internal/common/i18n"

type Tone string

const (
	ToneSuccess Tone = "success"
	ToneInfo    Tone = "info"
	ToneWarning Tone = "warning"
	ToneDanger  Tone = "danger"
	ToneNeutral Tone = "neutral"
)

type Badge struct {
	Status string `json:"status"`
	Label  string `json:"label"`
	Tone   Tone   `json:"tone"`
}

type badgeSpec struct {
	en, ar string
	tone   Tone
}

var videoBadges = map[string]badgeSpec{
	"uploaded":   {en: "Uploaded", ar: "تم الرفع", tone: ToneSuccess},
	"processing": {en: "Processing", ar: "قيد المعالجة", tone: ToneInfo},
	"pending":    {en: "Pending", ar: "قيد الانتظار", tone: ToneWarning},
	"failed":     {en: "Failed", ar: "فشل", tone: ToneDanger},
}

var reservationBadges = map[string]badgeSpec{
	"pending":   {en: "Pending", ar: "قيد الانتظار", tone: ToneWarning},
	"confirmed": {en: "Confirmed", ar: "مؤكد", tone: ToneInfo},
	"completed": {en: "Completed", ar: "مكتمل", tone: ToneSuccess},
	"cancelled": {en: "Cancelled", ar: "ملغي", tone: ToneDanger},
}

var testDriveBadges = map[string]badgeSpec{
	"pending":   {en: "Pending", ar: "قيد الانتظار", tone: ToneWarning},
	"confirmed": {en: "Confirmed", ar: "مؤكد", tone: ToneInfo},
	"completed": {en: "Completed", ar: "تمت التجربة", tone: ToneSuccess},
	"cancelled": {en: "Cancelled", ar: "ملغاة", tone: ToneDanger},
}

func badge(table map[string]badgeSpec, status string, locale i18n.Locale) Badge {
	spec, ok := table[status]
	if !ok {
		return Badge{Status: status, Label: status, Tone: ToneNeutral}
	}
	return Badge{Status: status, Label: locale.Pick(spec.en, spec.ar), Tone: spec.tone}
}

func VideoStatusBadge(status string, locale i18n.Locale) Badge {
	return badge(videoBadges, status, locale)
}

func ReservationStatusBadge(status string, locale i18n.Locale) Badge {
	return badge(reservationBadges, status, locale)
}

func TestDriveStatusBadge(status string, locale i18n.Locale) Badge {
	return badge(testDriveBadges, status, locale)
}
