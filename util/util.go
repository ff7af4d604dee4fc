package util

import (
	"math"
	"os"
	"path/filepath"
	"strings"

	"switch-collector/pkg/logger"
)

// GetKeyByOid returns the key whose OID is a prefix of oid, preferring the
// longest match.
func GetKeyByOid(m map[string]string, oid string) string {
	oid = "." + strings.TrimPrefix(oid, ".")
	key, best := "", -1
	for k, v := range m {
		v = "." + strings.TrimPrefix(v, ".")
		if (oid == v || strings.HasPrefix(oid, v+".")) && len(v) > best {
			key, best = k, len(v)
		}
	}
	return key
}

func GetRootDir() string {
	if IsTesting() {
		dir, err := os.Getwd()
		if err != nil {
			logger.LogIfErr(err)
			return "."
		}
		return dir
	}
	exePath, err := os.Executable()
	if err != nil {
		logger.LogIfErr(err)
		return "."
	}
	return filepath.Dir(exePath)
}

func IsTesting() bool {
	args := os.Args
	return len(args) > 0 && strings.Contains(strings.ToLower(os.Args[0]), "go-build")
}

func RoundFloat(val float64, precision uint) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
