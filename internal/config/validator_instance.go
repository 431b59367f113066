package config

import (
	"net"
	"strconv"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/hivelab/internal/validation"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
	validateErr   error
)

// validatorInstance configures and returns the shared validator instance used across the config package.
func validatorInstance() (*validator.Validate, error) {
	validatorOnce.Do(func() {
		validateInst, validateErr = validation.New(map[string]validator.Func{
			"log_level": func(fl validator.FieldLevel) bool {
				_, err := zerolog.ParseLevel(strings.ToLower(fl.Field().String()))
				return err == nil
			},
			"listen_addr": func(fl validator.FieldLevel) bool {
				return isListenAddr(fl.Field().String())
			},
		})
	})

	return validateInst, validateErr
}

// isListenAddr accepts "host:port" and ":port" with a numeric port.
func isListenAddr(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 0 && n <= 65535
}
