package indexer

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	kib = int64(1024)
	mib = 1024 * kib
	gib = 1024 * mib
	tib = 1024 * gib
)

var (
	sizePattern       = regexp.MustCompile(`(?i)^\s*([\d.,]+)\s*([KMGT]i?B|B|bytes)?\s*$`)
	resolutionPattern = regexp.MustCompile(`(?i)\b(2160|1080|720|576|480)[pi]\b`)
)

// ParseSize converts a human size such as "1.2 GiB" or "700 MB" to bytes.
// Decimal and binary prefixes are both read as powers of 1024.
func ParseSize(s string) (int64, bool) {
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil || n < 0 {
		return 0, false
	}

	mult := int64(1)
	switch strings.ToUpper(strings.TrimSuffix(strings.ToUpper(m[2]), "IB")) {
	case "K", "KB":
		mult = kib
	case "M", "MB":
		mult = mib
	case "G", "GB":
		mult = gib
	case "T", "TB":
		mult = tib
	}
	return int64(n * float64(mult)), true
}

// EstimateSize returns a deterministic size guess from the resolution in title.
func EstimateSize(title string) int64 {
	m := resolutionPattern.FindStringSubmatch(title)
	if m == nil {
		return gib
	}
	return EstimateSizeForResolution(m[1])
}

// EstimateSizeForResolution maps a vertical resolution to a typical episode size.
func EstimateSizeForResolution(res string) int64 {
	switch strings.TrimSuffix(strings.ToLower(res), "p") {
	case "2160":
		return 4 * gib
	case "1080":
		return 13 * gib / 10
	case "720":
		return 700 * mib
	case "576", "480":
		return 350 * mib
	}
	return gib
}
