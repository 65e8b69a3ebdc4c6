package prefstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/noar-utils/snapshooter/internal/application/ports"
	"github.com/noar-utils/snapshooter/internal/core/domain/prefs"
	"github.com/noar-utils/snapshooter/internal/core/domain/snapshot"
	coreports "github.com/noar-utils/snapshooter/internal/core/ports"
)

// RegistryKind is the storage type of a registry value
type RegistryKind int

const (
	RegistryOther RegistryKind = iota
	RegistryDWord
	RegistryQWord
	RegistryBinary
)

// RegistryValue is one raw value of a registry key. Data is the stored
// payload; integer payloads are little endian. The engine writes floats as
// 8-byte doubles under the DWORD type, so the payload length of a DWORD is
// not always 4.
type RegistryValue struct {
	Kind RegistryKind
	Data []byte
}

// DWordValue encodes a 4-byte integer value
func DWordValue(v uint32) RegistryValue {
	data := make([]byte, 4)
	binary.LittleEndian.PutUint32(data, v)
	return RegistryValue{Kind: RegistryDWord, Data: data}
}

// FloatValue encodes f the way the engine stores floats: double bits under
// the DWORD type
func FloatValue(f float64) RegistryValue {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint64(data, math.Float64bits(f))
	return RegistryValue{Kind: RegistryDWord, Data: data}
}

// BinaryValue encodes a NUL terminated string blob
func BinaryValue(s string) RegistryValue {
	return RegistryValue{Kind: RegistryBinary, Data: append([]byte(s), 0)}
}

// Uint decodes up to 8 bytes of little endian payload
func (v RegistryValue) Uint() uint64 {
	var buf [8]byte
	copy(buf[:], v.Data)
	return binary.LittleEndian.Uint64(buf[:])
}

// IsWide reports whether the value holds an 8-byte payload
func (v RegistryValue) IsWide() bool {
	return len(v.Data) == 8
}

// ValueSource enumerates the values of one opened registry key
type ValueSource interface {
	ValueNames() ([]string, error)
	Value(name string) (RegistryValue, error)
	Close() error
}

// RegistryOpener opens the key at path under the current user hive. It
// returns an error wrapping prefs.ErrStoreNotFound when the key is absent.
type RegistryOpener func(path string) (ValueSource, error)

// RegistryKey is a registry key opened for reading and writing
type RegistryKey interface {
	ValueSource
	SetValue(name string, v RegistryValue) error
	DeleteValue(name string) error
}

// RegistryKeyOpener opens the key at path for reading and writing. With
// create set a missing key is created; otherwise a missing key is reported
// as prefs.ErrStoreNotFound.
type RegistryKeyOpener func(path string, create bool) (RegistryKey, error)

// RegistryPath returns the subkey holding the preferences of ns
func RegistryPath(scope Scope, ns snapshot.Namespace) string {
	if scope == ScopePlayer {
		return `Software\` + ns.Company + `\` + ns.Product
	}
	return `Software\Unity\UnityEditor\` + ns.Company + `\` + ns.Product
}

// HashedValueName returns the registry value name the engine uses for key:
// the key followed by "_h" and a djb2-xor hash of its UTF-16 code units.
func HashedValueName(key string) string {
	hash := uint32(5381)
	for _, c := range utf16.Encode([]rune(key)) {
		hash = hash*33 ^ uint32(c)
	}
	return key + "_h" + strconv.FormatUint(uint64(hash), 10)
}

// LogicalKey strips the disambiguation suffix after the last underscore
func LogicalKey(valueName string) string {
	if i := strings.LastIndex(valueName, "_"); i >= 0 {
		return valueName[:i]
	}
	return valueName
}

// RegistryExtractor reads preferences stored as registry values
type RegistryExtractor struct {
	scope  Scope
	open   RegistryOpener
	check  prefs.FloatCheck
	logger ports.LoggingGateway
}

// NewRegistryExtractor creates a registry extractor. check decides which
// 4-byte integers were written as floats.
func NewRegistryExtractor(scope Scope, open RegistryOpener, check prefs.FloatCheck, logger ports.LoggingGateway) *RegistryExtractor {
	if check == nil {
		check = prefs.NeverFloat
	}
	if logger == nil {
		logger = ports.NopLogger{}
	}
	return &RegistryExtractor{scope: scope, open: open, check: check, logger: logger}
}

// Platform implements PreferenceExtractor
func (e *RegistryExtractor) Platform() string {
	return "registry"
}

// Extract implements PreferenceExtractor. Several value names can map to the
// same logical key; the one enumerated last wins, and the enumeration order
// is decided by the operating system.
func (e *RegistryExtractor) Extract(ctx context.Context, ns snapshot.Namespace) (prefs.Store, error) {
	path := RegistryPath(e.scope, ns)

	source, err := e.open(path)
	if err != nil {
		if errors.Is(err, prefs.ErrStoreNotFound) || errors.Is(err, prefs.ErrPlatformUnsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %v", prefs.ErrStoreNotFound, path, err)
	}
	defer source.Close()

	names, err := source.ValueNames()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to enumerate %s: %v", prefs.ErrStoreNotFound, path, err)
	}

	store := prefs.NewStore()
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := source.Value(name)
		if err != nil {
			e.logger.LogError(err, "Skipping unreadable registry value", map[string]interface{}{"name": name})
			continue
		}

		key := LogicalKey(name)
		value, ok := e.convert(key, raw)
		if !ok {
			e.logger.Log(ports.LogLevelDebug, "Skipping registry value of unsupported type", map[string]interface{}{"name": name})
			continue
		}
		store[key] = value
	}

	return store, nil
}

func (e *RegistryExtractor) convert(key string, raw RegistryValue) (prefs.Value, bool) {
	switch raw.Kind {
	case RegistryDWord:
		if f, isFloat := e.check.CheckFloat(key); isFloat {
			return prefs.Float(f), true
		}
		if raw.IsWide() {
			return prefs.Float(float32(math.Float64frombits(raw.Uint()))), true
		}
		return prefs.Int(int32(uint32(raw.Uint()))), true
	case RegistryQWord:
		return prefs.Float(float32(math.Float64frombits(raw.Uint()))), true
	case RegistryBinary:
		return prefs.Text(decodeText(raw.Data)), true
	default:
		return prefs.Value{}, false
	}
}

// decodeText decodes a UTF-8 blob and drops trailing NUL terminators
func decodeText(b []byte) string {
	return strings.TrimRight(strings.ToValidUTF8(string(b), "\uFFFD"), "\x00")
}

// LiveFloatCheck disambiguates DWORD registry values through the live
// preference API: when reading the key as an integer returns the default for
// two different defaults, the value was not written as an integer and is
// re-read as a float. Keys the live API cannot resolve at all are reported
// as floats too.
type LiveFloatCheck struct {
	live coreports.LivePreferences
}

// NewLiveFloatCheck creates a check backed by live preferences
func NewLiveFloatCheck(live coreports.LivePreferences) *LiveFloatCheck {
	return &LiveFloatCheck{live: live}
}

// CheckFloat implements prefs.FloatCheck
func (p *LiveFloatCheck) CheckFloat(key string) (float32, bool) {
	if p.live.GetInt(key, -1) == -1 && p.live.GetInt(key, 0) == 0 {
		return p.live.GetFloat(key, 0), true
	}
	return 0, false
}

var (
	_ coreports.PreferenceExtractor = (*RegistryExtractor)(nil)
	_ prefs.FloatCheck              = (*LiveFloatCheck)(nil)
)
