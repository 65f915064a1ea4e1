package userservice

import (
	"time"

	quizfarmv1 "github.com/hobbyfarm/quizfarm/pkg/apis/quizfarm.io/v1"
	"github.com/hobbyfarm/quizfarm/pkg/validation"
)

type PreparedUser struct {
	ID        uint            `json:"id"`
	Username  string          `json:"username"`
	Role      quizfarmv1.Role `json:"role"`
	CreatedAt time.Time       `json:"created_at"`
}

type PreparedDashboard struct {
	PreparedUser
	ResultCount     int64    `json:"result_count"`
	ManageQuestions bool     `json:"manage_questions"`
	Flashes         []string `json:"flashes"`
}

type PreparedHome struct {
	Authenticated bool     `json:"authenticated"`
	Username      string   `json:"username,omitempty"`
	Flashes       []string `json:"flashes"`
}

type PreparedField struct {
	Name      string `json:"name"`
	Label     string `json:"label"`
	Type      string `json:"type"`
	MinLength int    `json:"min_length,omitempty"`
	MaxLength int    `json:"max_length,omitempty"`
}

type PreparedForm struct {
	Action  string          `json:"action"`
	Fields  []PreparedField `json:"fields"`
	Flashes []string        `json:"flashes"`
}

type registration struct {
	Username  string `json:"username"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Role      string `json:"role,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

var registrationSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "password", "password2"],
	"properties": {
		"username": {"type": "string", "minLength": 3, "maxLength": 20},
		"password": {"type": "string", "minLength": 6, "maxLength": 72},
		"password2": {"type": "string", "minLength": 1},
		"role": {"type": "string", "enum": ["", "user", "admin"]}
	}
}`)

var credentialsSchema = validation.MustCompile(`{
	"type": "object",
	"required": ["username", "password"],
	"properties": {
		"username": {"type": "string", "minLength": 1},
		"password": {"type": "string", "minLength": 1}
	}
}`)

var registerForm = PreparedForm{
	Action: "/register",
	Fields: []PreparedField{
		{Name: "username", Label: "Username", Type: "text", MinLength: quizfarmv1.UsernameMinLength, MaxLength: quizfarmv1.UsernameMaxLength},
		{Name: "password", Label: "Password", Type: "password", MinLength: quizfarmv1.PasswordMinLength, MaxLength: quizfarmv1.PasswordMaxBytes},
		{Name: "password2", Label: "Confirm Password", Type: "password"},
	},
}

var loginForm = PreparedForm{
	Action: "/login",
	Fields: []PreparedField{
		{Name: "username", Label: "Username", Type: "text"},
		{Name: "password", Label: "Password", Type: "password"},
	},
}
