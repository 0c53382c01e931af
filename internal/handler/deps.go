package handler

import (
	"chatrelay/internal/app/chat"
	"chatrelay/internal/configs"
)

// AppDeps carries the long-lived collaborators the HTTP handlers need.
type AppDeps struct {
	Hub    *chat.Hub
	Relay  *chat.Relay
	Config *configs.AppConfig
}
