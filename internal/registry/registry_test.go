package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecutableFromCommand(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{
			in:   `"C:\Riot Games\Riot Client\RiotClientServices.exe" --uninstall-product=league_of_legends`,
			want: `C:\Riot Games\Riot Client\RiotClientServices.exe`,
		},
		{
			in:   `C:\Riot Games\Riot Client\RiotClientServices.exe --uninstall`,
			want: `C:\Riot Games\Riot Client\RiotClientServices.exe`,
		},
		{
			in:   `"C:\unterminated\RiotClientServices.exe`,
			want: `C:\unterminated\RiotClientServices.exe`,
		},
		{in: "   ", want: ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, executableFromCommand(c.in), c.in)
	}
}
