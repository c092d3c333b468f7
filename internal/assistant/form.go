package assistant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	_ "embed"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ContractForm carries the details a supply agreement is generated from.
// Field names follow the wire format the original frontend submits.
type ContractForm struct {
	SupplierName      string   `json:"supplier_name"`
	Product           string   `json:"product"`
	AnnualVolume      string   `json:"annual_volume"`
	Delivery          string   `json:"delivery"`
	Pricing           string   `json:"pricing"`
	PaymentTerms      string   `json:"payment_terms"`
	ContractDuration  string   `json:"contract_duration"`
	QualityStandards  string   `json:"quality_standards"`
	Warranty          string   `json:"warranty"`
	Compliance        string   `json:"compliance"`
	RiskRequirements  string   `json:"risk_requirements"`
	AdditionalClauses string   `json:"additional_clauses"`
	IndexName         []string `json:"index_name,omitempty"`
}

//go:embed contract_form.schema.json
var contractFormSchema string

var (
	formSchemaOnce sync.Once
	formSchema     *jsonschema.Schema
	formSchemaErr  error
)

// ValidateForm checks a raw contract-form payload against the embedded JSON
// Schema before it is decoded and turned into a prompt.
func ValidateForm(raw []byte) error {
	formSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("contract_form.schema.json", strings.NewReader(contractFormSchema)); err != nil {
			formSchemaErr = err
			return
		}
		formSchema, formSchemaErr = compiler.Compile("contract_form.schema.json")
	})
	if formSchemaErr != nil {
		return fmt.Errorf("failed to compile contract form schema: %w", formSchemaErr)
	}

	var v any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return fmt.Errorf("contract form is not valid JSON: %w", err)
	}
	if err := formSchema.Validate(v); err != nil {
		return fmt.Errorf("contract form validation failed: %w", err)
	}
	return nil
}
