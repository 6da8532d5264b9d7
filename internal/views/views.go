// Package views はログイン画面とようこそ画面のテンプレートを提供します。
package views

import (
	"embed"
	"html/template"
)

// テンプレート名（gin の c.HTML に渡す名前）
const (
	LoginPage   = "login.html"
	WelcomePage = "welcome.html"
)

//go:embed templates/*.html
var files embed.FS

// Load は埋め込みテンプレートを読み込みます。
// html/template のため、埋め込む値は自動的にエスケープされます。
func Load() (*template.Template, error) {
	return template.ParseFS(files, "templates/*.html")
}

// MustLoad は Load に失敗した場合 panic します。
func MustLoad() *template.Template {
	return template.Must(Load())
}

// LoginData はログイン画面に渡す値です。
type LoginData struct {
	Error string
}

// WelcomeData はようこそ画面に渡す値です。
type WelcomeData struct {
	Username string
}
