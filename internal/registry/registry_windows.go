//go:build windows

package registry

import (
	"errors"
	"strings"

	"golang.org/x/sys/windows/registry"
)

func expandRoot(abv string) registry.Key {
	switch abv {
	case "HKCR":
		return registry.CLASSES_ROOT
	case "HKCU":
		return registry.CURRENT_USER
	case "HKLM":
		return registry.LOCAL_MACHINE
	default:
		return 0
	}
}

// GetStringValue reads a REG_SZ value from a path like `HKCU\Software\...`.
func GetStringValue(fullPath, valueName string) (string, error) {
	root, subPath := splitRootAndPath(fullPath)
	k, err := registry.OpenKey(root, subPath, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	defer k.Close()

	val, _, err := k.GetStringValue(valueName)
	if errors.Is(err, registry.ErrNotExist) {
		return "", ErrNotFound
	}
	return val, err
}

// RiotClientPath returns the client executable recorded by the installer.
func RiotClientPath() (string, error) {
	for _, key := range UninstallKeys {
		cmd, err := GetStringValue(key, "UninstallString")
		if err != nil {
			continue
		}
		if exe := executableFromCommand(cmd); exe != "" {
			return exe, nil
		}
	}
	return "", ErrNotFound
}

func splitRootAndPath(p string) (registry.Key, string) {
	parts := strings.SplitN(p, `\`, 2)
	if len(parts) < 2 {
		return registry.CURRENT_USER, p
	}
	return expandRoot(parts[0]), parts[1]
}
