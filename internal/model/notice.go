package model

// NoticeLevel is the severity of a notice.
type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

// Notice is a transient message shown to the user once.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// Success builds a success notice.
func Success(msg string) Notice {
	return Notice{Level: NoticeSuccess, Message: msg}
}

// Failure builds an error notice.
func Failure(msg string) Notice {
	return Notice{Level: NoticeError, Message: msg}
}
