package cmd

import (
	"testing"

	"github.com/spf13/viper"
)

func TestUpdateCommand(t *testing.T) {
	if updateCmd == nil {
		t.Error("updateCmd is nil")
	}
	if updateCmd.Use != "update" {
		t.Errorf("expected use 'update', got %s", updateCmd.Use)
	}
}

func TestChartCommandRegistered(t *testing.T) {
	for _, name := range []string{"update", "chart", "standings", "email", "authenticate"} {
		found := false
		for _, sub := range rootCmd.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("subcommand %q not registered", name)
		}
	}
}

func TestUpdateRequiresApiCredentials(t *testing.T) {
	viper.Set("api_key", "")
	viper.Set("secret", "")

	err := updateCmd.PreRunE(updateCmd, nil)
	if err == nil {
		t.Error("Expected error when api_key/secret are missing, got nil")
	}

	viper.Set("api_key", "test-api-key")
	viper.Set("secret", "test-secret")
	defer func() {
		viper.Set("api_key", "")
		viper.Set("secret", "")
	}()

	err = updateCmd.PreRunE(updateCmd, nil)
	if err != nil {
		t.Errorf("Expected nil when credentials are set, got %v", err)
	}
}

func TestEmailRequiresFrom(t *testing.T) {
	viper.Set("from", "")

	err := emailCmd.PreRunE(emailCmd, []string{"test@example.com"})
	if err == nil {
		t.Error("Expected error when from is missing, got nil")
	}

	viper.Set("from", "me@example.com")
	defer viper.Set("from", "")

	err = emailCmd.PreRunE(emailCmd, []string{"test@example.com"})
	if err != nil {
		t.Errorf("Expected nil when from is set, got %v", err)
	}
}
