// internal/workers/communication/notify-result/templates.go
package notifyresult

import (
	"fmt"
	"strings"

	"careercompass-workers/internal/models"
)

type messageTemplate struct {
	Subject string
	Body    string
	SMS     string
}

// One template per locale. Placeholders are {{riasecCode}} and {{resultUrl}}.
var resultTemplates = map[models.Locale]messageTemplate{
	models.LocaleKK: {
		Subject: "Мансап тестінің нәтижесі дайын",
		Body:    "Сіздің кәсіби бейініңіз анықталды: {{riasecCode}}. Толық нәтижені мына сілтеме бойынша көре аласыз: {{resultUrl}}",
		SMS:     "Мансап тестінің нәтижесі дайын: {{resultUrl}}",
	},
	models.LocaleRU: {
		Subject: "Результат профориентационного теста готов",
		Body:    "Ваш профессиональный профиль определён: {{riasecCode}}. Полный результат доступен по ссылке: {{resultUrl}}",
		SMS:     "Результат теста готов: {{resultUrl}}",
	},
	models.LocaleEN: {
		Subject: "Your career assessment result is ready",
		Body:    "Your professional profile has been determined: {{riasecCode}}. View the full result here: {{resultUrl}}",
		SMS:     "Your assessment result is ready: {{resultUrl}}",
	},
}

func templateFor(locale models.Locale) messageTemplate {
	if tmpl, ok := resultTemplates[locale]; ok {
		return tmpl
	}
	return resultTemplates[models.DefaultLocale]
}

// renderTemplate substitutes known placeholders and strips any that remain.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl

	for k, v := range data {
		placeholder := "{{" + k + "}}"
		value := ""
		if s, ok := v.(string); ok {
			value = s
		} else if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, placeholder, value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		end += start + 2
		result = result[:start] + result[end:]
	}

	return result
}
