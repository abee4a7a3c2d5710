package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName == "" {
		t.Error("AppName should not be empty")
	}

	expectedAppName := "Planet Rover Expedition Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	originalConfigDir := *configDir
	*configDir = filepath.Join(t.TempDir(), "configs")
	defer func() { *configDir = originalConfigDir }()

	expeditionService, err := initializeServices()
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}

	if expeditionService == nil {
		t.Fatal("Expected expedition service to be initialized")
	}

	// A fresh config directory is seeded with the built-in planets.
	entries, err := os.ReadDir(*configDir)
	if err != nil {
		t.Fatalf("Failed to read config directory: %v", err)
	}
	if len(entries) == 0 {
		t.Error("Expected seeded planet configurations in fresh config directory")
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	// Test with a config directory that cannot be created
	originalConfigDir := *configDir
	*configDir = "/dev/null/configs"
	defer func() { *configDir = originalConfigDir }()

	_, err := initializeServices()
	if err == nil {
		t.Error("Expected error for uncreatable config directory")
	}
}

func TestFlagDefaults(t *testing.T) {
	// Test that flags have reasonable defaults
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}
}

// Note: main(), runHTTPServer(), and runStdioMCPWithInternalServer() start
// servers and block, so they are exercised by integration tests against a
// running instance rather than unit tests here.
