//go:build windows

package prefstore

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"

	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
)

const preferenceAccess = registry.QUERY_VALUE | registry.SET_VALUE

// registry.Key only writes DWORDs of 4 bytes; the engine's floats need the
// raw call.
var procRegSetValueExW = windows.NewLazySystemDLL("advapi32.dll").NewProc("RegSetValueExW")

// registryKey reads and writes the raw values of an opened key
type registryKey struct {
	key registry.Key
}

func openRegistry(path string) (ValueSource, error) {
	k, err := registry.OpenKey(registry.CURRENT_USER, path, registry.QUERY_VALUE)
	if err != nil {
		return nil, notFound(path, err)
	}
	return &registryKey{key: k}, nil
}

func openRegistryKey(path string, create bool) (RegistryKey, error) {
	if create {
		k, _, err := registry.CreateKey(registry.CURRENT_USER, path, preferenceAccess)
		if err != nil {
			return nil, err
		}
		return &registryKey{key: k}, nil
	}

	k, err := registry.OpenKey(registry.CURRENT_USER, path, preferenceAccess)
	if err != nil {
		return nil, notFound(path, err)
	}
	return &registryKey{key: k}, nil
}

func notFound(path string, err error) error {
	if errors.Is(err, registry.ErrNotExist) {
		return fmt.Errorf("%w: HKCU\\%s", prefs.ErrStoreNotFound, path)
	}
	return fmt.Errorf("failed to open HKCU\\%s: %w", path, err)
}

// ValueNames lists every value of the key
func (k *registryKey) ValueNames() ([]string, error) {
	return k.key.ReadValueNames(0)
}

// Value reads the payload as stored, whatever its length
func (k *registryKey) Value(name string) (RegistryValue, error) {
	n, valtype, err := k.key.GetValue(name, nil)
	if err != nil {
		return RegistryValue{}, err
	}

	buf := make([]byte, n)
	if n > 0 {
		n, valtype, err = k.key.GetValue(name, buf)
		if err != nil {
			return RegistryValue{}, err
		}
	}

	kind := RegistryOther
	switch valtype {
	case registry.DWORD:
		kind = RegistryDWord
	case registry.QWORD:
		kind = RegistryQWord
	case registry.BINARY:
		kind = RegistryBinary
	}
	return RegistryValue{Kind: kind, Data: buf[:n]}, nil
}

// SetValue writes the payload as given. DWORD payloads of eight bytes are
// written unchanged, which registry.Key.SetDWordValue cannot do.
func (k *registryKey) SetValue(name string, v RegistryValue) error {
	var valtype uint32
	switch v.Kind {
	case RegistryDWord:
		valtype = registry.DWORD
	case RegistryQWord:
		valtype = registry.QWORD
	case RegistryBinary:
		valtype = registry.BINARY
	default:
		return fmt.Errorf("cannot write registry value %s of kind %d", name, v.Kind)
	}

	pname, err := windows.UTF16PtrFromString(name)
	if err != nil {
		return err
	}
	var pdata *byte
	if len(v.Data) > 0 {
		pdata = &v.Data[0]
	}

	r0, _, _ := procRegSetValueExW.Call(
		uintptr(k.key),
		uintptr(unsafe.Pointer(pname)),
		0,
		uintptr(valtype),
		uintptr(unsafe.Pointer(pdata)),
		uintptr(len(v.Data)),
	)
	if r0 != 0 {
		return fmt.Errorf("failed to write registry value %s: %w", name, windows.Errno(r0))
	}
	return nil
}

// DeleteValue removes one value
func (k *registryKey) DeleteValue(name string) error {
	return k.key.DeleteValue(name)
}

// Close releases the key handle
func (k *registryKey) Close() error {
	return k.key.Close()
}
