//go:build !windows

package registry

func GetStringValue(string, string) (string, error) { return "", ErrNotFound }

func RiotClientPath() (string, error) { return "", ErrNotFound }
