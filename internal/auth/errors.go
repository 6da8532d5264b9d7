package auth

import "errors"

// ログイン処理の失敗理由。いずれも利用者が再操作すれば回復できます。
var (
	// ErrMissingField はユーザー名またはパスワードが送信されていないことを表します。
	ErrMissingField = errors.New("missing username or password")
	// ErrInvalidCredentials はユーザー名とパスワードが一致しないことを表します。
	// 未知のユーザーとパスワード違いを区別しません。
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNoSession は有効なセッションが無いことを表します。
	ErrNoSession = errors.New("no valid session")
)

// 利用者に表示するメッセージ
const (
	MessageInvalidCredentials = "Nom d'utilisateur ou mot de passe incorrect."
	MessageMissingField       = "Veuillez remplir tous les champs."
	MessageInternalError      = "Une erreur interne est survenue. Veuillez réessayer."
)
