//go:build unit

package coupon_test

import (
	"testing"

	"coupon-manager/internal/domain/coupon"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	t.Run("長さと文字集合", func(t *testing.T) {
		for range 50 {
			code, err := coupon.GenerateCode()
			require.NoError(t, err)
			require.Len(t, code.String(), coupon.CodeLength)
			for _, r := range code.String() {
				assert.Contains(t, coupon.Alphabet, string(r))
			}
		}
	})

	t.Run("紛らわしい文字を含まない", func(t *testing.T) {
		assert.NotContains(t, coupon.Alphabet, "0")
		assert.NotContains(t, coupon.Alphabet, "O")
		assert.NotContains(t, coupon.Alphabet, "1")
		assert.NotContains(t, coupon.Alphabet, "I")
	})
}

func TestNormalizeCode(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "小文字を大文字へ", in: "abcd2345", want: "ABCD2345"},
		{name: "ハイフンを除去", in: "gdxc-12", want: "GDXC12"},
		{name: "空白を除去", in: "  AB CD 23 45  ", want: "ABCD2345"},
		{name: "記号混在", in: "ab_cd/23.45", want: "ABCD2345"},
		{name: "空文字はそのまま", in: "", want: ""},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, coupon.NormalizeCode(c.in))
		})
	}
}

func TestNewCode(t *testing.T) {
	cases := []struct {
		name  string
		in    string
		want  string
		errIs error
	}{
		{name: "正規の8文字OK", in: "ABCD2345", want: "ABCD2345"},
		{name: "小文字も正規化されてOK", in: "abcd2345", want: "ABCD2345"},
		{name: "7文字NG", in: "ABCD234", errIs: coupon.ErrInvalidCode},
		{name: "9文字NG", in: "ABCD23456", errIs: coupon.ErrInvalidCode},
		{name: "除外文字を含むNG", in: "ABCD0145", errIs: coupon.ErrInvalidCode},
		{name: "空文字NG", in: "", errIs: coupon.ErrInvalidCode},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, err := coupon.NewCode(c.in)
			if c.errIs != nil {
				require.ErrorIs(t, err, c.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, code.String())
		})
	}
}

func TestPhone(t *testing.T) {
	t.Run("数字以外を除去", func(t *testing.T) {
		phone, err := coupon.NewPhone("010-1234-5678")
		require.NoError(t, err)
		assert.Equal(t, "01012345678", phone.Digits())
	})

	t.Run("数字なしはエラー", func(t *testing.T) {
		_, err := coupon.NewPhone("abc-def")
		require.ErrorIs(t, err, coupon.ErrPhoneEmpty)
	})

	t.Run("マスク表示", func(t *testing.T) {
		cases := []struct {
			name string
			in   string
			want string
		}{
			{name: "標準の11桁", in: "01012345678", want: "010-****-5678"},
			{name: "7桁ちょうど", in: "1234567", want: "123-****-4567"},
			{name: "短い番号は末尾2桁のみ", in: "12345", want: "***45"},
			{name: "2桁以下はそのまま", in: "12", want: "12"},
		}
		for _, c := range cases {
			t.Run(c.name, func(t *testing.T) {
				phone, err := coupon.NewPhone(c.in)
				require.NoError(t, err)
				assert.Equal(t, c.want, phone.Masked())
			})
		}
	})
}
