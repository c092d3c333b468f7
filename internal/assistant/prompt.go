package assistant

import (
	"fmt"
	"strings"
)

// BuildContractPrompt renders the contract form into the generation prompt.
// Field order matches the form the legal team reviews, so the assistant
// sees the details in the same sequence.
func BuildContractPrompt(form ContractForm) string {
	var b strings.Builder
	b.WriteString("I need a Supply Agreement Contract. Here are the details:\n")

	fields := []struct {
		label string
		value string
	}{
		{"Supplier Name", form.SupplierName},
		{"Product", form.Product},
		{"Annual Volume", form.AnnualVolume},
		{"Delivery", form.Delivery},
		{"Pricing", form.Pricing},
		{"Payment Terms", form.PaymentTerms},
		{"Contract Duration", form.ContractDuration},
		{"Quality Standards", form.QualityStandards},
		{"Warranty", form.Warranty},
		{"Compliance", form.Compliance},
		{"Risk Requirements", form.RiskRequirements},
		{"Additional Clauses", form.AdditionalClauses},
	}
	for _, f := range fields {
		b.WriteString("\n")
		b.WriteString(f.label)
		b.WriteString(": ")
		b.WriteString(f.value)
		b.WriteString("\n")
	}

	b.WriteString("\nPlease generate the full Supply Agreement Contract and then provide a compliance check summary.")
	return b.String()
}

// BuildSectionRewritePrompt asks the assistant to rewrite one section's
// body. The reply is spliced verbatim under the section's header, so the
// prompt insists on body-only output.
func BuildSectionRewritePrompt(title, body, instruction string) string {
	return fmt.Sprintf(`You are revising one section of a Supply Agreement Contract.

Section: %s

Current section text:
%s

Requested change:
%s

Rewrite the section accordingly. Return ONLY the rewritten section body, without the section heading, without surrounding commentary and without code fences.`, title, body, instruction)
}

// BuildGeneralChatPrompt frames a question about the contract as a whole.
func BuildGeneralChatPrompt(contractText, message string) string {
	return fmt.Sprintf(`You are assisting with a Supply Agreement Contract. The current contract text is:

%s

Question:
%s

Answer concisely. Do not restate the contract.`, contractText, message)
}
