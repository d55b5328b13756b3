package app

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JiscSD/native-xml-adapter/broker/message"
	"github.com/JiscSD/native-xml-adapter/internal/testutil"
	"github.com/JiscSD/native-xml-adapter/model"

	"github.com/aws/aws-sdk-go/service/sns/snsiface"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMainHelp(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"native-xml-adapter", "help"}

	var (
		output    bytes.Buffer
		errOutput bytes.Buffer
	)
	err := Run(&output, &errOutput)

	if err != nil {
		t.Error(err)
	}
	if have, want := output.String(), "Available Commands"; !strings.Contains(have, want) {
		t.Errorf("expected output %s not found in output: %s", want, have)
	}
	if errOutput.String() != "" {
		t.Errorf("error output is not empty")
	}
}

func TestMainUnknownCommand(t *testing.T) {
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = []string{"native-xml-adapter", "unknown"}

	err := Run(io.Discard, io.Discard)

	if err == nil {
		t.Error("error expected")
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		c := Config{}
		c.Storage.Driver = "sqlite"
		c.Storage.DSN = "test.db"
		c.Import.Profile = "preprint"
		c.Import.FetchTimeout = 1
		return c
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"Memory driver", func(c *Config) { c.Storage.Driver, c.Storage.DSN = "memory", "" }, false},
		{"Default profile", func(c *Config) { c.Import.Profile = "" }, false},
		{"Unknown driver", func(c *Config) { c.Storage.Driver = "postgres" }, true},
		{"SQLite without DSN", func(c *Config) { c.Storage.DSN = "" }, true},
		{"Unknown profile", func(c *Config) { c.Import.Profile = "monograph" }, true},
		{"No timeout", func(c *Config) { c.Import.FetchTimeout = 0 }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := valid()
			tc.mutate(&c)
			err := c.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

const contextDocument = `<?xml version="1.0" encoding="utf-8"?>
<context xmlns="http://pkp.sfu.ca" path="publicknowledge" primary_locale="en">
  <name locale="en">Journal of Public Knowledge</name>
  <genres>
    <genre id="1"><name locale="en">Article Text</name></genre>
  </genres>
  <contributor_roles>
    <contributor_role id="1" identifier="AUTHOR"/>
  </contributor_roles>
  <users>
    <user username="admin" email="admin@example.org"/>
    <user username="reviewer" email="reviewer@example.org"/>
  </users>
</context>
`

// run executes the command line against the configuration file and
// returns the standard output.
func run(t *testing.T, config string, args ...string) (string, error) {
	t.Helper()
	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()
	os.Args = append([]string{"native-xml-adapter", "-c", config}, args...)

	var output bytes.Buffer
	err := Run(&output, io.Discard)
	return output.String(), err
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	metrics := filepath.Join(dir, "metrics.prom")
	config := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(config, []byte(fmt.Sprintf(`
[storage]
driver = "sqlite"
dsn = %q
files_dir = %q

[metrics]
textfile = %q
`, filepath.Join(dir, "store.db"), filepath.Join(dir, "files"), metrics)), 0o644))

	contextFile := filepath.Join(dir, "context.xml")
	require.NoError(t, os.WriteFile(contextFile, []byte(contextDocument), 0o644))
	submissionFile := testutil.FixturePath(t, "native/testdata/submission_review.xml")

	// Submissions need a context.
	_, err := run(t, config, "import", submissionFile)
	assert.Error(t, err)

	out, err := run(t, config, "import", contextFile)
	require.NoError(t, err)
	assert.Contains(t, out, "1 item(s) imported.")

	out, err = run(t, config, "import", "--context", "publicknowledge", submissionFile)
	require.NoError(t, err)
	assert.Contains(t, out, `unknown user "ghost"`)
	assert.Contains(t, out, "0 warning(s), 1 error(s)")
	assert.Contains(t, out, "1 item(s) imported.")

	blob, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `native_xml_adapter_entities_total{direction="import",kind="submission"} 1`)
	assert.Contains(t, string(blob), `native_xml_adapter_issues_total{severity="error"} 1`)

	publicationFile := filepath.Join(dir, "publication.xml")
	require.NoError(t, os.WriteFile(publicationFile, []byte(`<publication xmlns="http://pkp.sfu.ca" version="2" status="1">
  <title locale="en">Second version</title>
</publication>`), 0o644))

	_, err = run(t, config, "import", "--context", "publicknowledge", publicationFile)
	assert.ErrorContains(t, err, "publication needs a submission")

	_, err = run(t, config, "import", "--context", "publicknowledge", "--submission", "99", publicationFile)
	assert.ErrorContains(t, err, "submission 99 does not exist")

	out, err = run(t, config, "import", "--context", "publicknowledge", "--submission", "1", publicationFile)
	require.NoError(t, err)
	assert.Contains(t, out, "1 item(s) imported.")

	exported := filepath.Join(dir, "export.xml")
	out, err = run(t, config, "export", "--context", "publicknowledge", "--workflow", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "1 item(s) exported")
	blob, err = os.ReadFile(exported)
	require.NoError(t, err)
	assert.Contains(t, string(blob), `<submission `)
	assert.Contains(t, string(blob), `<reviewRound `)
	assert.Contains(t, string(blob), `<participant>reviewer</participant>`)

	out, err = run(t, config, "validate", exported)
	require.NoError(t, err)
	assert.Contains(t, out, "The document is valid.")

	out, err = run(t, config, "export", "--context", "publicknowledge", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<?xml"), out)
	assert.NotContains(t, out, "<reviewRound ")

	_, err = run(t, config, "export", "--context", "publicknowledge", "--submission", "99", exported)
	assert.Error(t, err)

	_, err = run(t, config, "export", "--context", "unknown", exported)
	assert.Error(t, err)
}

type snsStub struct {
	snsiface.SNSAPI
}

func TestRuntime_publisher(t *testing.T) {
	config := &Config{}
	config.Events.SNSTopic = "arn:aws:sns:eu-west-2:123456789012:native-xml"

	rt := &runtime{logger: logrus.New(), config: config}
	assert.Nil(t, rt.publisher(&model.Context{Path: "journal"}))

	rt.snsClient = snsStub{}
	rt.validator = &message.NoOpValidatorImpl{}
	assert.NotNil(t, rt.publisher(&model.Context{Path: "journal"}))
	assert.Nil(t, rt.publisher(&model.Context{PrimaryLocale: "en"}))
}
