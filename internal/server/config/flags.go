package config

import (
	"flag"
	"io"
	"time"
)

// cliFlags holds the parsed command line. Only flags that were actually
// passed are applied, so they override JSON and env without resetting them.
type cliFlags struct {
	configPath string
	values     Config
	set        map[string]bool
}

// parseFlags parses the server command line.
//
// Supported flags:
//
//	-c, -config string   path to a JSON config file
//	-a string            HTTP bind address (e.g., ":3000")
//	-g string            gRPC bind address (e.g., ":50051")
//	-storage string      storage driver: postgres | memory
//	-d string            PostgreSQL DSN
//	-s string            JWT HMAC secret key
//	-t duration          token validity (e.g., "168h")
//	-delete string       user delete policy: hard | soft
//	-r string            Redis address for the list cache
//	-cache-ttl duration  list cache TTL
//	-l string            log level
func parseFlags(args []string) (*cliFlags, error) {
	f := &cliFlags{set: map[string]bool{}}
	v := &f.values

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&f.configPath, "config", "", "path to config file")
	fs.StringVar(&f.configPath, "c", "", "path to config file (short)")
	fs.StringVar(&v.EndpointAddrHTTP, "a", "", "HTTP address and port")
	fs.StringVar(&v.EndpointAddrGRPC, "g", "", "gRPC address and port")
	fs.StringVar(&v.StorageDriver, "storage", "", "storage driver (postgres|memory)")
	fs.StringVar(&v.DatabaseDSN, "d", "", "database DSN")
	fs.StringVar(&v.SecretKey, "s", "", "secret key")
	fs.DurationVar(&v.TokenValidityDuration, "t", 0, "token validity duration")
	fs.StringVar(&v.UserDeletePolicy, "delete", "", "user delete policy (hard|soft)")
	fs.StringVar(&v.RedisAddr, "r", "", "redis address")
	fs.DurationVar(&v.CacheTTL, "cache-ttl", time.Duration(0), "list cache TTL")
	fs.StringVar(&v.LogLevel, "l", "", "log level")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })

	return f, nil
}

func (f *cliFlags) apply(c *Config) {
	v := f.values
	for name := range f.set {
		switch name {
		case "a":
			c.EndpointAddrHTTP = v.EndpointAddrHTTP
		case "g":
			c.EndpointAddrGRPC = v.EndpointAddrGRPC
		case "storage":
			c.StorageDriver = v.StorageDriver
		case "d":
			c.DatabaseDSN = v.DatabaseDSN
		case "s":
			c.SecretKey = v.SecretKey
		case "t":
			c.TokenValidityDuration = v.TokenValidityDuration
		case "delete":
			c.UserDeletePolicy = v.UserDeletePolicy
		case "r":
			c.RedisAddr = v.RedisAddr
		case "cache-ttl":
			c.CacheTTL = v.CacheTTL
		case "l":
			c.LogLevel = v.LogLevel
		}
	}
}
