package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-d database DSN
//	-c/-config json file path with configs
//	-app-name application name used as the TOTP issuer label
//	-environment run environment ("development" or "production")
//	-frontend-url base URL used when building password-reset links
//	-token-sign-key token signing key
//	-token-issuer token issuer name
//	-token-duration full session token duration (e.g., "1h")
//	-pending-token-duration pending 2FA token duration (e.g., "10m")
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-reset-sweep-interval expired reset challenge sweep interval
func ParseFlags() *StructuredConfig {
	var serverAddress, grpcServerAddress NetAddress
	var databaseDSN string
	var jsonConfigPath string
	var appName string
	var environment string
	var frontendURL string
	var tokenSignKey string
	var tokenIssuer string
	var tokenDuration time.Duration
	var pendingTokenDuration time.Duration
	var requestTimeout time.Duration
	var resetSweepInterval time.Duration

	flag.Var(&serverAddress, "a", "Net address host:port")
	flag.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	flag.StringVar(&appName, "app-name", "", "Application name (TOTP issuer label)")
	flag.StringVar(&environment, "environment", "", "Run environment (development/production)")
	flag.StringVar(&frontendURL, "frontend-url", "", "Frontend base URL for reset links")
	flag.StringVar(&tokenSignKey, "token-sign-key", "", "Token signing key")
	flag.StringVar(&tokenIssuer, "token-issuer", "", "Token issuer")
	flag.DurationVar(&tokenDuration, "token-duration", 0, "Full token duration (e.g., 1h)")
	flag.DurationVar(&pendingTokenDuration, "pending-token-duration", 0, "Pending token duration (e.g., 10m)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	flag.DurationVar(&resetSweepInterval, "reset-sweep-interval", 0, "Expired reset challenge sweep interval")

	flag.Parse()

	return &StructuredConfig{
		App: App{
			Name:        appName,
			Environment: environment,
			FrontendURL: frontendURL,
		},
		Auth: Auth{
			TokenSignKey:         tokenSignKey,
			TokenIssuer:          tokenIssuer,
			TokenDuration:        tokenDuration,
			PendingTokenDuration: pendingTokenDuration,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			ResetSweepInterval: resetSweepInterval,
		},
		JSONFilePath: jsonConfigPath,
	}
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is "localhost",
// and returns an error if the format or values are invalid.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 {
		return errors.New("port number is a positive integer")
	}

	if host != "localhost" {
		ip := net.ParseIP(hostAndPort[0])
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
