// Package redshift compiles bulk loads for Amazon Redshift as a COPY
// command reading from object storage with embedded credentials.
//
// The relocation planner guarantees the resource is object-store
// resident before this compiler runs; a local or remote-host resource
// here is a pipeline bug, reported as a PreconditionError.
package redshift

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/leapstack-labs/bulkload/pkg/core"
	"github.com/leapstack-labs/bulkload/pkg/dialect"
)

func init() {
	dialect.Register(&Compiler{})
}

var (
	providerMu sync.RWMutex
	provider   core.CredentialProvider
)

// SetCredentialProvider installs the ambient credential provider used by
// every subsequent Compile. Applications wire this once at startup.
func SetCredentialProvider(p core.CredentialProvider) {
	providerMu.Lock()
	defer providerMu.Unlock()
	provider = p
}

func credentialProvider() core.CredentialProvider {
	providerMu.RLock()
	defer providerMu.RUnlock()
	return provider
}

// copySpec captures the options record rendered into the COPY command.
type copySpec struct {
	Schema       string
	Table        string
	DataLocation string
	Delimiter    string
	IgnoreHeader int
	EmptyAsNull  bool
	BlanksAsNull bool
	Compression  string
}

// Compiler builds Redshift COPY commands.
type Compiler struct{}

// Name returns the engine identifier.
func (c *Compiler) Name() string { return "redshift" }

// RequiredMedium reports that Redshift COPY reads object storage only.
func (c *Compiler) RequiredMedium() core.Medium { return core.MediumObjectStore }

// Compile builds the COPY command. The target schema resolves as:
// explicit schema_name option, else the table's own schema, else the
// engine's default schema discovered via session introspection. When none
// resolves the result is a ConfigurationError, never an unset name.
func (c *Compiler) Compile(ctx context.Context, table *core.Table, res *core.Resource, opts core.Options) (*core.Command, error) {
	if err := opts.ValidateExtra(c.Name(), "schema_name", "compression"); err != nil {
		return nil, err
	}
	if res.Medium != core.MediumObjectStore {
		return nil, &core.PreconditionError{
			Dialect:  c.Name(),
			Required: core.MediumObjectStore,
			Got:      res.Medium,
		}
	}
	if !strings.HasPrefix(res.Path, "s3://") {
		return nil, &core.PreconditionError{
			Dialect:  c.Name(),
			Required: core.MediumObjectStore,
			Got:      res.Medium,
		}
	}

	schema, err := resolveSchema(ctx, table, opts)
	if err != nil {
		return nil, err
	}

	p := credentialProvider()
	if p == nil {
		return nil, &core.ConfigurationError{
			Msg: "redshift requires a credential provider; none configured",
		}
	}
	creds, err := p.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	if creds.AccessKey == "" || creds.SecretKey == "" {
		return nil, &core.ConfigurationError{
			Msg: "redshift requires an access/secret key pair",
		}
	}

	ignoreHeader := 0
	if opts.HeaderValue() {
		ignoreHeader = 1
	}
	spec := copySpec{
		Schema:       schema,
		Table:        table.Name,
		DataLocation: res.Path,
		Delimiter:    opts.Delimiter,
		IgnoreHeader: ignoreHeader,
		EmptyAsNull:  true,
		BlanksAsNull: false,
		Compression:  opts.Extra["compression"],
	}

	return &core.Command{SQL: render(spec, creds)}, nil
}

func resolveSchema(ctx context.Context, table *core.Table, opts core.Options) (string, error) {
	if s := opts.Extra["schema_name"]; s != "" {
		return s, nil
	}
	if table.Schema != "" {
		return table.Schema, nil
	}
	if table.Session != nil {
		s, err := table.Session.DefaultSchema(ctx)
		if err != nil {
			return "", fmt.Errorf("discovering default schema: %w", err)
		}
		if s != "" {
			return s, nil
		}
	}
	return "", &core.ConfigurationError{
		Msg: fmt.Sprintf("no schema resolvable for table %s", table.Name),
	}
}

func render(spec copySpec, creds core.Credentials) string {
	var b strings.Builder
	fmt.Fprintf(&b, `
		COPY %s.%s FROM '%s'
		WITH CREDENTIALS AS 'aws_access_key_id=%s;aws_secret_access_key=%s'
		FORMAT AS CSV
		DELIMITER '%s'
		IGNOREHEADER %d`,
		spec.Schema, spec.Table, spec.DataLocation,
		creds.AccessKey, creds.SecretKey,
		spec.Delimiter, spec.IgnoreHeader)
	if spec.EmptyAsNull {
		b.WriteString("\n\t\tEMPTYASNULL")
	}
	if spec.BlanksAsNull {
		b.WriteString("\n\t\tBLANKSASNULL")
	}
	if spec.Compression != "" {
		b.WriteString("\n\t\t" + strings.ToUpper(spec.Compression))
	}
	b.WriteString(";")
	return core.CollapseSpace(b.String())
}

var _ dialect.Compiler = (*Compiler)(nil)
