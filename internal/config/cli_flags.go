package config

import "github.com/spf13/cobra"

// RegisterFlags registers common CLI flags on the provided root command
func RegisterFlags(cmd *cobra.Command) {
	if cmd == nil {
		return
	}

	flags := cmd.PersistentFlags()
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.BoolP("quiet", "q", false, "Suppress all output except errors")
	flags.Bool("json", false, "Log in JSON format")
	flags.StringSlice("proxy", nil, "HTTP/SOCKS5 proxy, repeat or comma separate to rotate (e.g., http://localhost:8080)")
	flags.Duration("timeout", DefaultHTTPTimeout, "Per request timeout")
	flags.String("user-agent", DefaultUserAgent, "User agent string")
	flags.String("base-url", DefaultBaseURL, "Root URL of the quotes site")
	flags.Float64("rate", DefaultRateLimitRPS, "Requests per second per host (0 disables the limiter)")
	flags.Int("burst", DefaultRateLimitBurst, "Rate limiter burst size")
	flags.Int("parallelism", DefaultParallelism, "Concurrent requests (0 picks from the CPU count)")
	flags.Int("retries", DefaultRetryAttempts, "Attempts per page including the first")
	flags.String("feed", DefaultFeedPath, "Path of the JSON feed")
	flags.String("db", DefaultDBPath, "Path of the SQLite database")
	flags.String("config", "", "Path to configuration file (optional)")
}
