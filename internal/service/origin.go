package service

import "regexp"

var ipv4Pattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)

// OriginIPv4 returns the address origin bans are matched against: the first
// dotted quad found in raw (a forwarded-for header or peer address). It
// returns "" for the loopback literals 127.0.0.1 and ::1 and when no dotted
// quad is present. Octets are not range-checked and IPv6 is ignored.
func OriginIPv4(raw string) string {
	if raw == "127.0.0.1" || raw == "::1" {
		return ""
	}
	return ipv4Pattern.FindString(raw)
}
