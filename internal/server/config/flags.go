package config

import (
	"flag"
	"os"
	"time"

	"github.com/aquavo/authcore/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   metrics/health HTTP bind address (e.g., ":8090")
//	-d string   PostgreSQL DSN
//	-s int      session TTL, minutes
//	-i int      session cleanup interval, minutes
//	-l int      session list limit
//	-r int      reset token validity, minutes
//	-m string   SMTP address (host:port)
//	-u string   SMTP user
//	-p string   SMTP password
//	-f string   mail From address
//	-b string   reset link base URL
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers in minutes and then converted
//     to time.Duration values.
func parseFlags(config *Config) {
	// Filter args to include only the flags handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-i", "-l", "-r", "-m", "-u", "-p", "-f", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port for the metrics/health endpoint")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")

	sessionTTL := fs.Int("s", int(config.SessionTTL.Minutes()), "session_ttl (in minutes)")
	cleanupInterval := fs.Int("i", int(config.SessionCleanupInterval.Minutes()), "session_cleanup_interval (in minutes)")
	fs.IntVar(&config.SessionListLimit, "l", config.SessionListLimit, "session_list_limit")
	resetTokenTTL := fs.Int("r", int(config.ResetTokenTTL.Minutes()), "reset_token_ttl (in minutes)")

	fs.StringVar(&config.SMTPAddr, "m", config.SMTPAddr, "SMTP address (host:port)")
	fs.StringVar(&config.SMTPUser, "u", config.SMTPUser, "SMTP user")
	fs.StringVar(&config.SMTPPassword, "p", config.SMTPPassword, "SMTP password")
	fs.StringVar(&config.MailFrom, "f", config.MailFrom, "mail From address")
	fs.StringVar(&config.ResetBaseURL, "b", config.ResetBaseURL, "reset link base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.SessionCleanupInterval = time.Duration(*cleanupInterval) * time.Minute
	config.ResetTokenTTL = time.Duration(*resetTokenTTL) * time.Minute
}
