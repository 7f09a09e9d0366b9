// Package discordipc provides a Golang client for Discord's local IPC presence protocol
package discordipc

import (
	"github.com/ajitpratap0/discord-ipc-go/pkg/ipc"
	"github.com/ajitpratap0/discord-ipc-go/pkg/presence"
	"github.com/ajitpratap0/discord-ipc-go/pkg/protocol"
	"github.com/ajitpratap0/discord-ipc-go/pkg/register"
)

// Version represents the current version of the SDK
const Version = "1.0.0"

// These exports provide direct access to the core SDK components
var (
	// New creates a new IPC client for an application
	New = ipc.New

	// ConnectWithRetry connects a client under a backoff policy
	ConnectWithRetry = ipc.ConnectWithRetry

	// NewActivity starts a rich presence builder
	NewActivity = presence.NewBuilder

	// RegisterApp registers the application's discord-<id> URL scheme
	RegisterApp = register.App

	// RegisterSteamGame registers the scheme with a Steam launch URL
	RegisterSteamGame = register.SteamGame
)

// Build preferences for Connect
const (
	BuildAny    = protocol.BuildAny
	BuildStable = protocol.BuildStable
	BuildPTB    = protocol.BuildPTB
	BuildCanary = protocol.BuildCanary
)

// Subscribable events
const (
	EventActivityJoin        = protocol.EventActivityJoin
	EventActivitySpectate    = protocol.EventActivitySpectate
	EventActivityJoinRequest = protocol.EventActivityJoinRequest
)

// Client options
var (
	WithLogger          = ipc.WithLogger
	WithDialer          = ipc.WithDialer
	WithDialTimeout     = ipc.WithDialTimeout
	WithPollInterval    = ipc.WithPollInterval
	WithNonceGenerator  = ipc.WithNonceGenerator
	WithInstrumentation = ipc.WithInstrumentation
	WithTracer          = ipc.WithTracer
	WithAutoRegister    = ipc.WithAutoRegister
)
