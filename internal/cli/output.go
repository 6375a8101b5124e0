package cli

import (
	"encoding/json"
	"fmt"
)

// OutputFormat represents the output format for commands.
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
)

// GetOutputFormat returns the current output format from the global flag.
func GetOutputFormat() OutputFormat {
	if output == "json" {
		return OutputFormatJSON
	}
	return OutputFormatText
}

// IsJSONOutput returns true if JSON output mode is enabled.
func IsJSONOutput() bool {
	return output == "json"
}

// CatalogEntry is the JSON output shape for one catalog entry.
type CatalogEntry struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	PriceCentsPerHour int      `json:"price_cents_per_hour"`
	VCPUs             int      `json:"vcpus"`
	MemoryGiB         int      `json:"memory_gib"`
	StorageGiB        int      `json:"storage_gib"`
	Regions           []string `json:"regions_with_capacity"`
}

// InstanceOutput is the JSON output shape for one instance.
type InstanceOutput struct {
	ID          string   `json:"id"`
	Status      string   `json:"status"`
	IP          string   `json:"ip,omitempty"`
	SSHKeyNames []string `json:"ssh_key_names,omitempty"`
}

// AcquisitionOutput is the JSON output shape for start and find.
type AcquisitionOutput struct {
	Status       string `json:"status"` // "active", "address_pending", "error"
	InstanceID   string `json:"instance_id,omitempty"`
	InstanceType string `json:"instance_type,omitempty"`
	Region       string `json:"region,omitempty"`
	IP           string `json:"ip,omitempty"`
	Error        string `json:"error,omitempty"`
}

// PrintJSON marshals and prints a value as JSON.
func PrintJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		// Fallback error output
		errOut := map[string]string{
			"status": "error",
			"error":  fmt.Sprintf("failed to marshal JSON: %v", err),
		}
		data, _ = json.MarshalIndent(errOut, "", "  ")
	}
	fmt.Println(string(data))
}

// PrintJSONError prints an error in JSON format.
func PrintJSONError(err error) {
	out := struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}{
		Status: "error",
		Error:  err.Error(),
	}
	PrintJSON(out)
}
