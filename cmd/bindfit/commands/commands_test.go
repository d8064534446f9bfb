package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func writeTitration(t *testing.T) string {
	t.Helper()
	const k, h0 = 500.0, 2e-3
	var b strings.Builder
	b.WriteString("h0,g0,y\n")
	for i := 0; i < 10; i++ {
		g0 := float64(i) * 2e-3
		s := h0 + g0 + 1/k
		hg := (s - math.Sqrt(s*s-4*h0*g0)) / 2
		fmt.Fprintf(&b, "%g,%g,%.10f\n", h0, g0, 1.0+0.8*hg/h0)
	}
	path := filepath.Join(t.TempDir(), "titration.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
	return path
}

func TestFittersCommand(t *testing.T) {
	out, err := run(t, "fitters")
	require.NoError(t, err)
	assert.Contains(t, out, "nmr1to1")
	assert.Contains(t, out, "uv1to2")
}

func TestFitCommand_JSON(t *testing.T) {
	out, err := run(t, "--json", "fit", writeTitration(t), "--fitter", "nmr1to1", "--param", "50")
	require.NoError(t, err)

	var result fitOutput
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "nmr1to1", result.Fitter)
	require.Len(t, result.Params, 1)
	for _, k := range result.Params {
		assert.InEpsilon(t, 500, k, 1e-2)
	}
	assert.Len(t, result.DataID, 40)
}

func TestFitCommand_Errors(t *testing.T) {
	_, err := run(t, "fit", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	_, err = run(t, "fit", writeTitration(t), "--fitter", "itc")
	assert.Error(t, err)

	_, err = run(t, "fit", writeTitration(t), "--fitter", "nmr1to2", "--param", "100")
	assert.Error(t, err, "nmr1to2 needs two constants")
}

func TestSimCommand(t *testing.T) {
	out, err := run(t, "sim", "--fitter", "uv1to1", "--param", "1000", "--points", "5")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 6, "header plus one row per point")

	_, err = run(t, "sim", "--points", "1")
	assert.Error(t, err)
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	out, err := run(t, "token", "--subject", "lab-7")
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(strings.TrimSpace(out), claims)
	require.NoError(t, err)
	assert.Equal(t, "lab-7", claims["sub"])
}

func TestTokenCommand_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := run(t, "token")
	assert.Error(t, err)
}
