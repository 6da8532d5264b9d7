package views

import (
	"bytes"
	"strings"
	"testing"
)

func TestWelcomeEscapesUsername(t *testing.T) {
	tmpl := MustLoad()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, WelcomePage, WelcomeData{Username: "<script>alert(1)</script>"}); err != nil {
		t.Fatalf("ExecuteTemplate returned error: %v", err)
	}

	body := buf.String()
	if strings.Contains(body, "<script>") {
		t.Fatalf("username was not escaped: %s", body)
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped username missing: %s", body)
	}
}

func TestLoginShowsErrorOnlyWhenSet(t *testing.T) {
	tmpl := MustLoad()

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, LoginPage, LoginData{}); err != nil {
		t.Fatalf("ExecuteTemplate returned error: %v", err)
	}
	if strings.Contains(buf.String(), `class="error"`) {
		t.Fatal("error paragraph should not be rendered without an error")
	}

	buf.Reset()
	if err := tmpl.ExecuteTemplate(&buf, LoginPage, LoginData{Error: "Veuillez remplir tous les champs."}); err != nil {
		t.Fatalf("ExecuteTemplate returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "Veuillez remplir tous les champs.") {
		t.Fatalf("error message missing: %s", buf.String())
	}
}
