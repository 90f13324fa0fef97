package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"

	"github.com/FranLegon/drive-folder-cleaner/internal/crypto"
	"github.com/FranLegon/drive-folder-cleaner/internal/model"
)

const (
	configFile = "config.json.enc"
	saltFile   = "config.salt"

	// HomeEnv overrides the directory holding the config, salt and history files
	HomeEnv = "DRIVE_CLEANER_HOME"
	// PasswordEnv supplies the master password without prompting
	PasswordEnv = "DRIVE_CLEANER_PASSWORD"
	// ClientIDEnv and ClientSecretEnv seed the init command
	ClientIDEnv     = "DRIVE_CLEANER_CLIENT_ID"
	ClientSecretEnv = "DRIVE_CLEANER_CLIENT_SECRET"

	defaultPageSize int64 = 50
	minPasswordLen        = 8
)

var (
	// ErrNotInitialized is returned when init has not been run yet
	ErrNotInitialized = errors.New("config not found, please run the 'init' command first")
	// ErrWrongPassword is returned when the config cannot be decrypted
	ErrWrongPassword = errors.New("failed to decrypt config: master password may be incorrect")
	// ErrDuplicateUser is returned when an account is added twice
	ErrDuplicateUser = errors.New("account already configured")
)

// Config is the structure stored encrypted in config.json.enc
type Config struct {
	GoogleClient ClientCredentials `json:"google_client"`
	Users        []model.User      `json:"users"`
	PageSize     int64             `json:"page_size,omitempty"`
	RedirectPort int               `json:"redirect_port,omitempty"`
}

// ClientCredentials holds the OAuth 2.0 client ID and secret
type ClientCredentials struct {
	ID     string `json:"id"`
	Secret string `json:"secret"`
}

// Dir returns the application directory
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}
	return filepath.Dir(exe), nil
}

// Path joins name onto the application directory
func Path(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// Exists reports whether init has created the config file
func Exists() bool {
	p, err := Path(configFile)
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Create writes a fresh salt and saves cfg encrypted with password
func Create(password string, cfg *Config) error {
	saltPath, err := Path(saltFile)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(saltPath), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := crypto.GenerateAndSaveSalt(saltPath); err != nil {
		return err
	}
	return Save(password, cfg)
}

// Load decrypts and loads the configuration
func Load(password string) (*Config, error) {
	key, err := key(password)
	if err != nil {
		return nil, err
	}

	cfgPath, err := Path(configFile)
	if err != nil {
		return nil, err
	}
	ciphertext, err := os.ReadFile(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	plaintext, err := crypto.Decrypt(ciphertext, key)
	if err != nil {
		return nil, ErrWrongPassword
	}

	var cfg Config
	if err := json.Unmarshal(plaintext, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// Save encrypts cfg and writes it with owner-only permissions
func Save(password string, cfg *Config) error {
	key, err := key(password)
	if err != nil {
		return err
	}

	plaintext, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	ciphertext, err := crypto.Encrypt(plaintext, key)
	if err != nil {
		return fmt.Errorf("failed to encrypt config for saving: %w", err)
	}

	cfgPath, err := Path(configFile)
	if err != nil {
		return err
	}
	return os.WriteFile(cfgPath, ciphertext, 0600)
}

func key(password string) ([]byte, error) {
	saltPath, err := Path(saltFile)
	if err != nil {
		return nil, err
	}
	salt, err := crypto.LoadSalt(saltPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotInitialized
		}
		return nil, fmt.Errorf("failed to read salt file: %w", err)
	}
	return crypto.DeriveKey(password, salt), nil
}

// MainUser returns the main account, or nil when none is configured
func (c *Config) MainUser() *model.User {
	for i := range c.Users {
		if c.Users[i].IsMain {
			return &c.Users[i]
		}
	}
	return nil
}

// FindUser returns the account with the given email, or nil
func (c *Config) FindUser(email string) *model.User {
	for i := range c.Users {
		if c.Users[i].Email == email {
			return &c.Users[i]
		}
	}
	return nil
}

// AddUser appends an account. The first account added becomes the main one.
func (c *Config) AddUser(user model.User) error {
	if c.FindUser(user.Email) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateUser, user.Email)
	}
	user.IsMain = c.MainUser() == nil
	c.Users = append(c.Users, user)
	return nil
}

// EffectivePageSize returns the listing page size, defaulting to 50
func (c *Config) EffectivePageSize() int64 {
	if c.PageSize <= 0 {
		return defaultPageSize
	}
	return c.PageSize
}

// GetMasterPassword returns the master password from the environment or
// prompts for it without echoing the characters to the terminal.
func GetMasterPassword(confirm bool) (string, error) {
	if pw := os.Getenv(PasswordEnv); pw != "" {
		return pw, validatePassword(pw)
	}

	prompt := promptui.Prompt{
		Label:    "Enter Master Password",
		Mask:     '*',
		Validate: validatePassword,
	}

	password, err := prompt.Run()
	if err != nil {
		return "", err
	}

	if confirm {
		confirmPrompt := promptui.Prompt{
			Label:    "Confirm Master Password",
			Mask:     '*',
			Validate: validatePassword,
		}
		confirmation, err := confirmPrompt.Run()
		if err != nil {
			return "", err
		}
		if password != confirmation {
			return "", errors.New("passwords do not match")
		}
	}

	return password, nil
}

func validatePassword(input string) error {
	if len(input) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLen)
	}
	return nil
}
