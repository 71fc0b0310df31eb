// Package pages содержит статические обработчики: публичные страницы,
// описания форм входа и регистрации, проверку живости и заглушки
// платёжных и аналитических API.
package pages

import (
	"net/http"

	"github.com/go-chi/render"
)

// Page — описание статической страницы.
type Page struct {
	Page  string `json:"page"`
	Title string `json:"title"`
}

// Field — поле HTML-формы.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

// Form — описание формы: куда и каким методом её отправлять.
type Form struct {
	Page   string  `json:"page"`
	Title  string  `json:"title"`
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []Field `json:"fields"`
}

// Static возвращает обработчик, отдающий фиксированное JSON-тело.
func Static(body any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, body)
	}
}

// Home godoc
// @Summary Главная страница
// @Tags Pages
// @Produce json
// @Success 200 {object} Page
// @Router / [get]
func Home() http.HandlerFunc {
	return Static(Page{Page: "index", Title: "Bank Portal"})
}

// About godoc
// @Summary О проекте
// @Tags Pages
// @Produce json
// @Success 200 {object} Page
// @Router /about [get]
func About() http.HandlerFunc {
	return Static(Page{Page: "about", Title: "About"})
}

// Widget godoc
// @Summary Виджет
// @Tags Pages
// @Produce json
// @Success 200 {object} Page
// @Router /widget [get]
func Widget() http.HandlerFunc {
	return Static(Page{Page: "widget", Title: "Widget"})
}

// LoginForm godoc
// @Summary Форма входа
// @Tags Pages
// @Produce json
// @Success 200 {object} Form
// @Router /login [get]
func LoginForm() http.HandlerFunc {
	return Static(Form{
		Page:   "login",
		Title:  "Login",
		Action: "/login",
		Method: http.MethodPost,
		Fields: []Field{
			{Name: "email", Type: "email", Required: true},
			{Name: "password", Type: "password", Required: true},
			{Name: "remember", Type: "checkbox"},
		},
	})
}

// RegisterForm godoc
// @Summary Форма регистрации
// @Tags Pages
// @Produce json
// @Success 200 {object} Form
// @Router /register [get]
func RegisterForm() http.HandlerFunc {
	return Static(Form{
		Page:   "register",
		Title:  "Register",
		Action: "/register",
		Method: http.MethodPost,
		Fields: []Field{
			{Name: "email", Type: "email", Required: true},
			{Name: "first_name", Type: "text", Required: true},
			{Name: "last_name", Type: "text", Required: true},
			{Name: "password", Type: "password", Required: true},
			{Name: "is_merchant", Type: "checkbox"},
		},
	})
}

// Health godoc
// @Summary Проверка живости
// @Tags Pages
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func Health() http.HandlerFunc {
	return Static(map[string]string{"status": "ok"})
}

// UPISender godoc
// @Summary Отправка UPI-платежа (заглушка)
// @Tags Placeholders
// @Produce json
// @Success 200 {object} map[string]string
// @Router /upi_sender [post]
func UPISender() http.HandlerFunc {
	return Static(map[string]string{"status": "UPI payment sent"})
}

// UPIReceiver godoc
// @Summary Приём UPI-платежа (заглушка)
// @Tags Placeholders
// @Produce json
// @Success 200 {object} map[string]string
// @Router /upi_receiver [post]
func UPIReceiver() http.HandlerFunc {
	return Static(map[string]string{"status": "UPI payment received"})
}

// Chatbot godoc
// @Summary Чат-бот (заглушка)
// @Tags Placeholders
// @Produce json
// @Success 200 {object} map[string]string
// @Router /chatbot [post]
func Chatbot() http.HandlerFunc {
	return Static(map[string]string{"response": "Chatbot reply goes here"})
}

// Analytics godoc
// @Summary Аналитика (заглушка)
// @Tags Placeholders
// @Produce json
// @Success 200 {object} map[string]string
// @Router /analytics [get]
func Analytics() http.HandlerFunc {
	return Static(map[string]string{"status": "Analytics generated"})
}
