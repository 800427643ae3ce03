package common

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

// SeedAccount describes one account to open for a seeded user. A positive
// initial_deposit is applied right after the account is created.
type SeedAccount struct {
	Type           string `yaml:"type"`
	InitialDeposit string `yaml:"initial_deposit"`
}

type SeedUser struct {
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Accounts []SeedAccount `yaml:"accounts"`
}

type SeedFile struct {
	Users []SeedUser `yaml:"users"`
}

// LoadSeedFile reads the optional initial-data file used by cmd/setup.
func LoadSeedFile(seedFile string) ([]SeedUser, error) {
	var seedPath string
	if filepath.IsAbs(seedFile) {
		seedPath = seedFile
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		seedPath = filepath.Join(wd, seedFile)
	}

	data, err := os.ReadFile(seedPath)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", seedFile, err)
	}

	var seed SeedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", seedFile, err)
	}

	for i, user := range seed.Users {
		if user.Username == "" {
			return nil, fmt.Errorf("user at index %d missing username", i)
		}
		if user.Password == "" {
			return nil, fmt.Errorf("user at index %d missing password", i)
		}
		for j, account := range user.Accounts {
			if account.Type == "" {
				return nil, fmt.Errorf("account at index %d for user %s missing type", j, user.Username)
			}
		}
	}

	return seed.Users, nil
}
