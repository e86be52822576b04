package handlers

import (
	"html"

	"github.com/gofiber/fiber/v2"
)

const pageStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#047857}h2{color:#444;margin-top:30px}</style>`

type PagesHandler struct {
	appName string
}

func NewPagesHandler(appName string) *PagesHandler {
	return &PagesHandler{appName: html.EscapeString(appName)}
}

func (h *PagesHandler) Landing(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>` + h.appName + `</title>
` + pageStyle + `
</head><body>
<h1>` + h.appName + `</h1>
<p>Fotografe sua refeição, acompanhe calorias e macronutrientes e alcance sua meta diária.</p>
<h2>Análise por foto</h2>
<p>Tire uma foto do prato e receba calorias, proteínas, carboidratos e gorduras estimados.</p>
<h2>Diário e lembretes</h2>
<p>Registre atividades físicas e receba lembretes nos dias e horários que você escolher.</p>
<h2>Dicas e planos</h2>
<p>Dicas de emagrecimento e planos de dieta de 4, 8 e 12 semanas.</p>
<p><a href="/api/legal/privacy">Privacidade</a> · <a href="/api/legal/terms">Termos</a></p>
</body></html>`)
}

func (h *PagesHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - ` + h.appName + `</title>
` + pageStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>Your email address, the meals and activities you log, meal photos you submit for analysis, your questionnaire answers and your reminders.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used solely to operate ` + h.appName + `, compute your daily summaries and deliver the reminders you schedule.</p>
<h2>Health Data</h2>
<p>Weight, height and nutrition figures are stored only to show you your own progress. Calorie estimates from photos are approximations and are not medical advice.</p>
<h2>Account Deletion</h2>
<p>You can delete your account and all associated data at any time from the app settings.</p>
</body></html>`)
}

func (h *PagesHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - ` + h.appName + `</title>
` + pageStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using ` + h.appName + `, you agree to these terms.</p>
<h2>Not Medical Advice</h2>
<p>Nutrition estimates, BMI values, tips and plans are informational. Consult a professional before changing your diet.</p>
<h2>Termination</h2>
<p>We may suspend accounts that abuse the service.</p>
</body></html>`)
}
