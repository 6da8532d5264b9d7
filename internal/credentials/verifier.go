// Package credentials はログインに使う固定ユーザー表と照合処理を提供します。
package credentials

import "crypto/subtle"

// Table はユーザー名からパスワードへの対応表です。
type Table map[string]string

// DefaultTable は設定ファイルが無いときに使う組み込みのユーザー表を返します。
func DefaultTable() Table {
	return Table{
		"admin": "1234",
		"user1": "user1pass",
		"user2": "user2pass",
	}
}

// Verifier は起動時に固定したユーザー表に対して資格情報を照合します。
// 生成後は読み取り専用のため、ロックなしで並行に呼び出せます。
type Verifier struct {
	table Table
}

// NewVerifier は表のコピーを保持する Verifier を作成します。
func NewVerifier(table Table) *Verifier {
	copied := make(Table, len(table))
	for username, password := range table {
		copied[username] = password
	}
	return &Verifier{table: copied}
}

// Verify はユーザー名が表に存在し、パスワードが完全一致する場合のみ true を返します。
// nil（フォームに項目が無い）はどちらも一致しません。
// 未知のユーザーとパスワード違いは呼び出し側から区別できません。
func (v *Verifier) Verify(username, password *string) bool {
	if v == nil || username == nil || password == nil {
		return false
	}
	expected, ok := v.table[*username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(*password)) == 1
}

// Len は登録されているユーザー数を返します。
func (v *Verifier) Len() int {
	if v == nil {
		return 0
	}
	return len(v.table)
}
