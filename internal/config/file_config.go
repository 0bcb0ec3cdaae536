package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// FileValues mirrors the optional TOML config file. Empty fields leave the
// built-in defaults in place.
type FileValues struct {
	AppName    string `toml:"app_name"`
	Env        string `toml:"env"`
	DataFolder string `toml:"data_folder"`
	LogLevel   string `toml:"log_level"`

	APIBaseURL     string `toml:"api_base_url"`
	TokenStore     string `toml:"token_store"`
	TokenKey       string `toml:"token_key"`
	RequestTimeout string `toml:"request_timeout"`

	Port              string `toml:"port"`
	JWTSecret         string `toml:"jwt_secret"`
	AccessTokenExpire string `toml:"access_token_expire"`
	AdminEmail        string `toml:"admin_email"`
	AdminPassword     string `toml:"admin_password"`
	TOTPIssuer        string `toml:"totp_issuer"`
}

// LoadFile decodes a TOML config file. Unknown keys are rejected so typos
// don't silently fall back to defaults.
func LoadFile(path string) (FileValues, error) {
	var fv FileValues
	md, err := toml.DecodeFile(path, &fv)
	if err != nil {
		return FileValues{}, fmt.Errorf("failed to decode TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileValues{}, fmt.Errorf("unknown keys in %s: %v", path, undecoded)
	}
	return fv, nil
}
