//go:build unit

package branch_test

import (
	"testing"

	"coupon-manager/internal/domain/branch"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDirectory(t *testing.T) {
	t.Run("複数エントリを読み込む", func(t *testing.T) {
		dir, err := branch.NewDirectory("GDXC:48291, HDSR:11111,BSXC:22222")
		require.NoError(t, err)
		assert.Equal(t, []branch.Code{"BSXC", "GDXC", "HDSR"}, dir.Codes())
	})

	t.Run("コードは大文字へ正規化", func(t *testing.T) {
		dir, err := branch.NewDirectory("gdxc:48291")
		require.NoError(t, err)
		assert.True(t, dir.Knows("GDXC"))
	})

	cases := []struct {
		name string
		spec string
	}{
		{name: "空の設定NG", spec: ""},
		{name: "秘密なしNG", spec: "GDXC:"},
		{name: "コードなしNG", spec: ":48291"},
		{name: "区切りなしNG", spec: "GDXC48291"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := branch.NewDirectory(c.spec)
			require.ErrorIs(t, err, branch.ErrBadSecretEntry)
		})
	}
}

func TestDirectoryVerify(t *testing.T) {
	dir, err := branch.NewDirectory("GDXC:48291,HDSR:11111")
	require.NoError(t, err)

	t.Run("正しいパスワードOK", func(t *testing.T) {
		require.NoError(t, dir.Verify("GDXC", "48291"))
	})

	t.Run("誤ったパスワードNG", func(t *testing.T) {
		err := dir.Verify("GDXC", "00000")
		require.ErrorIs(t, err, branch.ErrInvalidPassword)
	})

	t.Run("他支店のパスワードは通らない", func(t *testing.T) {
		err := dir.Verify("GDXC", "11111")
		require.ErrorIs(t, err, branch.ErrInvalidPassword)
	})

	t.Run("未知の支店NG", func(t *testing.T) {
		err := dir.Verify("XXXX", "48291")
		require.ErrorIs(t, err, branch.ErrUnknownBranch)
	})

	t.Run("エラーに秘密情報を含まない", func(t *testing.T) {
		err := dir.Verify("GDXC", "00000")
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "48291")
	})
}
