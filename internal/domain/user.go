package domain

// User — подключённый клиент с объявленным именем.
// ID назначается сервером при подключении и в рамках процесса не переиспользуется.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
