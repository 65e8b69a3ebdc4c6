package configinfra

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	configdomain "github.com/noar-utils/snapshooter/internal/core/domain/config"
	configports "github.com/noar-utils/snapshooter/internal/core/ports/config"
)

// ProjectSettingsFile is the Unity asset holding the player settings,
// relative to the project directory
var ProjectSettingsFile = filepath.Join("ProjectSettings", "ProjectSettings.asset")

// ProjectSettingsLoader reads companyName and productName from the Unity
// project found in a directory (priority 5)
type ProjectSettingsLoader struct {
	projectDir string
}

func NewProjectSettingsLoader(projectDir string) *ProjectSettingsLoader {
	if projectDir == "" {
		projectDir, _ = os.Getwd()
	}
	return &ProjectSettingsLoader{projectDir: projectDir}
}

// Name identifies the loader in source metadata
func (l *ProjectSettingsLoader) Name() string { return "project" }

// Load reads the namespace from the Unity project settings, if found
func (l *ProjectSettingsLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	snap := make(configdomain.Snapshot)
	path := filepath.Join(l.projectDir, ProjectSettingsFile)

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return snap, nil
	}
	if err != nil {
		return snap, fmt.Errorf("failed to read project settings: %w", err)
	}

	company, product, err := ParsePlayerSettings(data)
	if err != nil {
		return snap, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if company != "" {
		snap.Set("company", company, "project", path, 5)
	}
	if product != "" {
		snap.Set("product", product, "project", path, 5)
	}
	return snap, nil
}

// ParsePlayerSettings extracts the company and product names from the
// contents of a ProjectSettings.asset file
func ParsePlayerSettings(data []byte) (company, product string, err error) {
	dec := yaml.NewDecoder(bytes.NewReader(stripUnityTags(data)))
	for {
		var doc yaml.Node
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", "", err
		}

		settings := mappingValue(documentRoot(&doc), "PlayerSettings")
		if settings == nil {
			continue
		}
		if n := mappingValue(settings, "companyName"); n != nil {
			company = strings.TrimSpace(n.Value)
		}
		if n := mappingValue(settings, "productName"); n != nil {
			product = strings.TrimSpace(n.Value)
		}
		return company, product, nil
	}
	return "", "", errors.New("no PlayerSettings document")
}

// stripUnityTags removes the %YAML and %TAG directives and the class tags
// Unity writes after each document marker
func stripUnityTags(data []byte) []byte {
	var out bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "%"):
			continue
		case strings.HasPrefix(line, "--- "):
			line = "---"
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	return out.Bytes()
}

func documentRoot(doc *yaml.Node) *yaml.Node {
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		return doc.Content[0]
	}
	return doc
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

var _ configports.Loader = (*ProjectSettingsLoader)(nil)
