package auth

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const domain = "psu.palawan.edu.ph"

func TestCanPostItems(t *testing.T) {
	cases := []struct {
		name string
		user User
		want bool
	}{
		{"verified role and flag", User{Role: RoleVerified, IsVerified: true}, true},
		{"admin role and flag", User{Role: RoleAdmin, IsVerified: true}, true},
		{"public role even when flagged verified", User{Role: RolePublic, IsVerified: true}, false},
		{"verified role without flag", User{Role: RoleVerified, IsVerified: false}, false},
		{"public unverified", User{Role: RolePublic}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, tc.user.CanPostItems())
		})
	}
}

func TestIsAdminUser(t *testing.T) {
	require.True(t, (&User{Role: RoleAdmin}).IsAdminUser())
	require.True(t, (&User{Role: RolePublic, IsSuperuser: true}).IsAdminUser())
	require.False(t, (&User{Role: RoleVerified, IsVerified: true}).IsAdminUser())
}

func TestInstitutionalEmailPredicates(t *testing.T) {
	campus := &User{Email: "juan@" + domain, IsVerified: true}
	require.True(t, campus.HasInstitutionalEmail(domain))
	require.True(t, campus.IsInstitutionalUser(domain))

	// Campus email alone is not enough without verification
	unverified := &User{Email: "maria@" + domain}
	require.True(t, unverified.HasInstitutionalEmail(domain))
	require.False(t, unverified.IsInstitutionalUser(domain))

	outsider := &User{Email: "gmailer@gmail.com", IsVerified: true}
	require.False(t, outsider.HasInstitutionalEmail(domain))
	require.False(t, outsider.IsInstitutionalUser(domain))

	// Suffix check must not match lookalike domains
	lookalike := &User{Email: "evil@notpsu.palawan.edu.ph.example.com", IsVerified: true}
	require.False(t, lookalike.HasInstitutionalEmail(domain))
}

func TestDisplayOrEmail(t *testing.T) {
	require.Equal(t, "Juan D", (&User{Email: "j@x.com", DisplayName: "Juan D"}).DisplayOrEmail())
	require.Equal(t, "j@x.com", (&User{Email: "j@x.com"}).DisplayOrEmail())
}

func TestValidateRegister(t *testing.T) {
	valid := RegisterRequest{Email: "a@b.com", Password: "longenough", Username: "juan.d"}
	require.NoError(t, ValidateRegister(&valid))

	bad := valid
	bad.Password = "short"
	require.Error(t, ValidateRegister(&bad))

	bad = valid
	bad.Email = "not-an-email"
	require.Error(t, ValidateRegister(&bad))

	bad = valid
	bad.Username = "x"
	require.Error(t, ValidateRegister(&bad))
}
