// Package lintdoctor runs advisory diagnostic checks against a
// configwatchd installation and, optionally, a single configuration
// file. It never touches the opaque-content core — config body grammar
// and semantics are out of scope for it — its schema check is purely
// advisory and its verdict never influences Resolver, ConfigCache, or
// RefreshCoordinator behavior.
package lintdoctor

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/basket/configwatch/internal/daemoncfg"
)

type CheckResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // "PASS", "FAIL", "WARN", "SKIP"
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type Diagnosis struct {
	Timestamp time.Time     `json:"timestamp"`
	System    SystemInfo    `json:"system"`
	Results   []CheckResult `json:"results"`
}

type SystemInfo struct {
	OS      string `json:"os"`
	Arch    string `json:"arch"`
	Go      string `json:"go_version"`
	Version string `json:"version"`
}

// configSchema is an advisory, non-normative shape for the JSON
// "globals" block that Configuration.Globals parses. Unlike the
// real quick-lint-js config grammar, failing this check is only ever
// a WARN — the core resolver and cache never consult it.
const configSchema = `{
	"type": "object",
	"properties": {
		"globals": {
			"type": "object",
			"additionalProperties": { "type": ["boolean", "object"] }
		}
	}
}`

// Run executes all diagnostic checks. configPath, if non-empty, points
// at a config file whose "globals" block is advisory-checked against
// configSchema.
func Run(ctx context.Context, cfg daemoncfg.Config, configPath, version string) Diagnosis {
	d := Diagnosis{
		Timestamp: time.Now().UTC(),
		System: SystemInfo{
			OS:      runtime.GOOS,
			Arch:    runtime.GOARCH,
			Go:      runtime.Version(),
			Version: version,
		},
	}

	d.Results = append(d.Results, checkHomeDir(cfg))
	d.Results = append(d.Results, checkHomeDirWritable(cfg))
	if configPath != "" {
		d.Results = append(d.Results, checkConfigSchema(configPath))
	} else {
		d.Results = append(d.Results, CheckResult{Name: "Config Schema", Status: "SKIP", Message: "no config path given"})
	}

	return d
}

func checkHomeDir(cfg daemoncfg.Config) CheckResult {
	if cfg.HomeDir == "" {
		return CheckResult{Name: "Home Directory", Status: "FAIL", Message: "configwatchd home directory not set"}
	}
	if _, err := os.Stat(cfg.HomeDir); err != nil {
		return CheckResult{Name: "Home Directory", Status: "FAIL", Message: fmt.Sprintf("stat %s: %v", cfg.HomeDir, err)}
	}
	return CheckResult{Name: "Home Directory", Status: "PASS", Message: fmt.Sprintf("found at %s", cfg.HomeDir)}
}

func checkHomeDirWritable(cfg daemoncfg.Config) CheckResult {
	if cfg.HomeDir == "" {
		return CheckResult{Name: "Permissions", Status: "SKIP", Message: "home directory not set"}
	}
	testFile := fmt.Sprintf("%s/.write_test", cfg.HomeDir)
	if err := os.WriteFile(testFile, []byte("test"), 0o600); err != nil {
		return CheckResult{Name: "Permissions", Status: "FAIL", Message: fmt.Sprintf("home dir unwritable: %v", err)}
	}
	os.Remove(testFile)
	return CheckResult{Name: "Permissions", Status: "PASS", Message: "home directory writable"}
}

// checkConfigSchema is purely advisory: a FAIL here is reported as a
// WARN, since config body validation is outside the core's concerns.
func checkConfigSchema(configPath string) CheckResult {
	schemaDoc, err := jsonschema.UnmarshalJSON(strings.NewReader(configSchema))
	if err != nil {
		return CheckResult{Name: "Config Schema", Status: "SKIP", Message: fmt.Sprintf("unmarshal advisory schema: %v", err)}
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("configwatchd://advisory-schema.json", schemaDoc); err != nil {
		return CheckResult{Name: "Config Schema", Status: "SKIP", Message: fmt.Sprintf("compile advisory schema: %v", err)}
	}
	schema, err := compiler.Compile("configwatchd://advisory-schema.json")
	if err != nil {
		return CheckResult{Name: "Config Schema", Status: "SKIP", Message: fmt.Sprintf("compile advisory schema: %v", err)}
	}

	raw, err := os.ReadFile(configPath)
	if err != nil {
		return CheckResult{Name: "Config Schema", Status: "SKIP", Message: fmt.Sprintf("read %s: %v", configPath, err)}
	}

	inst, err := jsonschema.UnmarshalJSON(strings.NewReader(string(raw)))
	if err != nil {
		return CheckResult{Name: "Config Schema", Status: "WARN", Message: fmt.Sprintf("%s is not valid JSON: %v", configPath, err)}
	}

	if err := schema.Validate(inst); err != nil {
		return CheckResult{
			Name:    "Config Schema",
			Status:  "WARN",
			Message: fmt.Sprintf("%s does not match the advisory globals shape", configPath),
			Detail:  err.Error(),
		}
	}
	return CheckResult{Name: "Config Schema", Status: "PASS", Message: fmt.Sprintf("%s matches the advisory globals shape", configPath)}
}
