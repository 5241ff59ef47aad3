package domain

import "strings"

// Task is a named to-do item.
type Task struct {
	ID   int64  `json:"id"`
	Task string `json:"task"`
}

// TaskInput carries the body of create and update requests.
type TaskInput struct {
	Task string `json:"task"`
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
