package ctxutil

import (
	"context"
)

type ctxKey string

const (
	studentCodeKey ctxKey = "student_code"
	teacherKey     ctxKey = "is_teacher"
	requestIDKey   ctxKey = "request_id"
)

// WithStudentCode stores the authenticated class code in the context.
func WithStudentCode(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, studentCodeKey, code)
}

// StudentCodeFromCtx extracts the class code from the context.
// Returns "" and false if the value is missing, empty, or the wrong type.
func StudentCodeFromCtx(ctx context.Context) (string, bool) {
	code, ok := ctx.Value(studentCodeKey).(string)
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// WithTeacher marks the context as belonging to a teacher account.
func WithTeacher(ctx context.Context, isTeacher bool) context.Context {
	return context.WithValue(ctx, teacherKey, isTeacher)
}

// IsTeacherFromCtx reports whether the context belongs to a teacher account.
func IsTeacherFromCtx(ctx context.Context) bool {
	v, _ := ctx.Value(teacherKey).(bool)
	return v
}

// WithRequestID stores the request ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromCtx extracts the request ID from the context.
// Returns an empty string if absent.
func RequestIDFromCtx(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
