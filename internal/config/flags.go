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
//	-r/-remote-backend remote store backend ("drive" or "http")
//	-a blob-file API address in format [host]:[port] (http backend)
//	-d local database DSN
//	-i/-sync-interval background sync interval (e.g., "1s", "500ms")
//	-request-timeout remote request timeout (e.g., "30s", "1m")
//	-log-file rotated log file path
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var remoteAddress NetAddress
	var remoteBackend string
	var databaseDSN string
	var syncInterval time.Duration
	var requestTimeout time.Duration
	var logFilePath string
	var jsonConfigPath string

	flag.StringVar(&remoteBackend, "r", "", "Remote store backend (drive|http)")
	flag.StringVar(&remoteBackend, "remote-backend", "", "Remote store backend (alias)")
	flag.Var(&remoteAddress, "a", "Blob-file API address host:port")
	flag.StringVar(&databaseDSN, "d", "", "Local database DSN")
	flag.DurationVar(&syncInterval, "i", 0, "Background sync interval (e.g., 1s, 500ms)")
	flag.DurationVar(&syncInterval, "sync-interval", 0, "Background sync interval (alias)")
	flag.DurationVar(&requestTimeout, "request-timeout", 0, "Remote request timeout (e.g., 30s, 1m)")
	flag.StringVar(&logFilePath, "log-file", "", "Rotated log file path")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Remote: Remote{
			Backend:        remoteBackend,
			HTTPAddress:    remoteAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN: databaseDSN,
			},
		},
		Sync: Sync{
			Interval: syncInterval,
		},
		Logging: Logging{
			FilePath: logFilePath,
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
