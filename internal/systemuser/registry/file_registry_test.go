package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const seed = `
systems:
  - system_id: the_matrix
    system_vendor_org_number: "991825827"
    name:
      nb: The Matrix
    rights:
      - resource:
          - id: urn:altinn:resource
            value: ske-krav-og-betalinger
    allowed_redirect_urls:
      - https://vendor.example/callback
  - system_id: retired
    system_vendor_org_number: "991825827"
    is_deleted: true
`

func TestFileRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("loads systems from a yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "registry.yaml")
		require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

		reg, err := LoadFileRegistry(path)
		require.NoError(t, err)

		sys, err := reg.GetRegisteredSystem(ctx, "the_matrix")
		require.NoError(t, err)
		require.NotNil(t, sys)
		assert.Equal(t, "991825827", sys.SystemVendorOrgNumber)
		assert.Equal(t, "the_matrix", sys.SystemInternalID)
		assert.Equal(t, "The Matrix", sys.DisplayName())
		require.Len(t, sys.Rights, 1)
		assert.Equal(t, "ske-krav-og-betalinger", sys.Rights[0].Resource[0].Value)

		rights, err := reg.GetDefaultRights(ctx, "the_matrix")
		require.NoError(t, err)
		assert.Len(t, rights, 1)
	})

	t.Run("unknown and deleted systems resolve to nil", func(t *testing.T) {
		reg, err := FileRegistryFromYAML([]byte(seed))
		require.NoError(t, err)

		sys, err := reg.GetRegisteredSystem(ctx, "retired")
		assert.NoError(t, err)
		assert.Nil(t, sys)

		rights, err := reg.GetDefaultRights(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, rights)
	})

	t.Run("duplicate system ids are rejected", func(t *testing.T) {
		_, err := FileRegistryFromYAML([]byte("systems:\n  - system_id: a\n  - system_id: a\n"))
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing.yaml")
		_, err := LoadFileRegistry(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), path)
		assert.True(t, os.IsNotExist(errors.Cause(err)))
	})

	t.Run("entry without system id is rejected", func(t *testing.T) {
		_, err := FileRegistryFromYAML([]byte("systems:\n  - system_vendor_org_number: \"991825827\"\n"))
		assert.EqualError(t, err, "registry entry without system_id")
	})
}
