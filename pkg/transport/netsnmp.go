package transport

import (
	"context"
	"errors"
	"net"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"time"

	"switch-collector/bin"
	"switch-collector/connection"
	"switch-collector/models/snmp"
	"switch-collector/pkg/logger"
	"switch-collector/pkg/parser"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// NetSNMP shells out to the net-snmp command line tools.
type NetSNMP struct {
	Run     Runner
	GetCmd  string
	WalkCmd string
}

func NewNetSNMP() *NetSNMP {
	return &NetSNMP{
		Run:     bin.RunCommand,
		GetCmd:  "snmpget",
		WalkCmd: "snmpwalk",
	}
}

func (n *NetSNMP) Get(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) (snmp.Value, error) {
	out, err := n.exec(ctx, conn, n.GetCmd, "-Oqve", oid)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug().Str("target", conn.Redacted()).Str("oid", oid).Msg(strings.TrimSpace(string(out)))
			return snmp.Unavailable, nil
		}
		return snmp.Unavailable, newFault(conn, oid, err)
	}
	return parser.ParseScalar(string(out)), nil
}

func (n *NetSNMP) Walk(ctx context.Context, conn snmp.SNMPConnectionConfig, oid string) ([]string, error) {
	out, err := n.exec(ctx, conn, n.WalkCmd, "-Onex", oid)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			logger.Debug().Str("target", conn.Redacted()).Str("oid", oid).Msg(strings.TrimSpace(string(out)))
			return nil, nil
		}
		return nil, newFault(conn, oid, err)
	}
	if !parser.ParseScalar(string(out)).Valid {
		return nil, nil
	}

	return walkLines(string(out)), nil
}

var hexRow = regexp.MustCompile(`=\s+Hex-STRING:\s*(.*)$`)

// walkLines splits snmpwalk output into one line per row. Long hex values
// wrap onto continuation lines, which are joined back to their row, and
// Hex-STRING rows are rewritten to the quoted STRING form.
func walkLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, ".") && len(lines) > 0 {
			lines[len(lines)-1] += " " + line
			continue
		}
		lines = append(lines, line)
	}
	for i, line := range lines {
		lines[i] = hexRow.ReplaceAllString(line, `= STRING: "$1"`)
	}
	return lines
}

func (n *NetSNMP) exec(ctx context.Context, conn snmp.SNMPConnectionConfig, command, format, oid string) ([]byte, error) {
	version := conn.Version
	if version == "" {
		version = snmp.DefaultVersion
	}
	timeout := conn.Timeout
	if timeout <= 0 {
		timeout = connection.DefaultTimeout
	}
	retries := conn.Retries
	if retries < 0 {
		retries = connection.DefaultRetries
	}

	args := []string{
		"-v" + version,
		"-c" + conn.Community,
		"-r" + strconv.Itoa(retries),
		"-t" + strconv.FormatFloat(timeout.Seconds(), 'f', -1, 64),
		format,
		peer(conn),
		oid,
	}

	// net-snmp enforces its own timeout; this only guards against a hung process.
	ctx, cancel := context.WithTimeout(ctx, timeout*time.Duration(retries+1)+time.Second)
	defer cancel()

	return n.Run(ctx, command, args...)
}

func peer(conn snmp.SNMPConnectionConfig) string {
	port := conn.Port
	if port == 0 {
		port = snmp.DefaultPort
	}
	ip := net.ParseIP(conn.Target)
	if ip != nil && ip.To4() == nil {
		return "udp6:[" + conn.Target + "]:" + strconv.Itoa(port)
	}
	return conn.Target + ":" + strconv.Itoa(port)
}
