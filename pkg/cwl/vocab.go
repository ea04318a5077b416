// Package cwl holds the CWL RDF vocabulary and the shared error taxonomy
// used across the viewer pipeline.
package cwl

// Namespace roots of the vocabularies cwltool emits in its RDF output.
const (
	NS     = "https://w3id.org/cwl/cwl#"
	RDFNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNS = "http://www.w3.org/2000/01/rdf-schema#"
)

// Class and predicate IRIs referenced by the bundled query patterns.
// Tests build fact graphs from these; the patterns themselves carry the
// IRIs as prefixed names.
const (
	RDFType   = RDFNS + "type"
	RDFSLabel = RDFSNS + "label"

	ClassWorkflow = NS + "Workflow"

	// Steps is the workflow→step membership predicate. cwltool scopes it
	// under the Workflow class, hence the unusual IRI shape.
	Steps = NS + "Workflow/steps"

	Run          = NS + "run"
	In           = NS + "in"
	Out          = NS + "out"
	Source       = NS + "source"
	Inputs       = NS + "inputs"
	Outputs      = NS + "outputs"
	OutputSource = NS + "outputSource"
)
