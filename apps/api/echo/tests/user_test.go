package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	. "github.com/lutechstack-bit/theforgeapp-sub003/apps/api/echo"
	"github.com/lutechstack-bit/theforgeapp-sub003/core/user"
	emailsvc "github.com/lutechstack-bit/theforgeapp-sub003/services/email"
	testutil "github.com/lutechstack-bit/theforgeapp-sub003/tests"
)

const strongPwd = "V3ry$trong-pwd"

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "LePass@123", []string{user.RoleMember}, true)
	testutil.CreateUser(t, usrRepo, "N Dog", "ndog@theforge.in", "LePass@123", []string{user.RoleMember}, false)

	body := func(email, pwd string) []byte {
		return marchallObj(t, LoginRequest{Email: email, Password: pwd})
	}

	tests := []httpTest{
		{
			name: "unknown email", body: body("lol@theforge.in", "LePass@123"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "wrong password", body: body(usr.Email, "lol"),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "deactivated account", body: body("ndog@theforge.in", "LePass@123"),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "account deactivated"}),
		},
		{name: "success", body: body("AWE@theforge.in", "LePass@123"), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "success" {
				if rec.Code != http.StatusOK {
					t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
				}
				var resp LoginResponse
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshalling LoginResponse: %v", err)
				}
				if resp.Token == "" {
					t.Error("expected a token")
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/users/token-refresh")
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)
	})

	t.Run("refresh", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, usr))
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var resp LoginResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshalling LoginResponse: %v", err)
		}
		if resp.Token == "" {
			t.Error("expected a token")
		}
	})
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true)
	king := testutil.CreateUser(t, usrRepo, "King Kaka", "king@theforge.in", "", []string{user.RoleMember}, true)
	crew := testutil.CreateUser(t, usrRepo, "Crew Cut", "crew@theforge.in", "", []string{user.RoleCrew}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true)
	naughty := testutil.CreateUser(t, usrRepo, "N Dog", "ndog@theforge.in", "", []string{user.RoleMember}, false)

	adminToken := getToken(t, admin)
	path := func(params url.Values) string { return "/v1/users?" + params.Encode() }
	empty := marchallList(t)

	tests := []httpTest{
		{name: "auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "admin required", path: "/v1/users", token: getToken(t, member),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "get all", path: "/v1/users", token: adminToken,
			wantData: marchallList(t, member, king, crew, admin, naughty),
		},
		{name: "search (unknown)", path: path(url.Values{"search": {"lol"}}), token: adminToken, wantData: empty},
		{
			name: "search=kin", path: path(url.Values{"search": {"kin"}}), token: adminToken,
			wantData: marchallList(t, king),
		},
		{
			name: "role=member:", path: path(url.Values{"role": {user.RoleMember}}), token: adminToken,
			wantData: marchallList(t, member, king, naughty),
		},
		{
			name: "role=crew:,admin:", path: path(url.Values{"role": {user.RoleCrew, user.RoleAdmin}}), token: adminToken,
			wantData: marchallList(t, crew, admin),
		},
		{
			name: "is_active=false", path: path(url.Values{"is_active": {"false"}}), token: adminToken,
			wantData: marchallList(t, naughty),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)

	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true)

	body := func(email string, roles ...string) []byte {
		return marchallObj(t, user.NewUser{
			FullName:        "New Member",
			Email:           email,
			Password:        strongPwd,
			PasswordConfirm: strongPwd,
			Roles:           roles,
		})
	}

	tests := []httpTest{
		{
			name: "auth required", body: body("new@theforge.in"),
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "admin required", body: body("new@theforge.in"), token: getToken(t, member),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "cannot grant a higher role", body: body("new@theforge.in", user.RoleAdminOwner), token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"roles": "not enough rights to set these roles"}),
		},
		{
			name: "email taken", body: body(member.Email), token: getToken(t, admin),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "a user with this email already exists"}),
		},
		{name: "created", body: body("new@theforge.in"), token: getToken(t, admin), wantCode: http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if tt.name == "created" {
				if rec.Code != http.StatusCreated {
					t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
				}
				var usr user.User
				if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
					t.Fatalf("unmarshalling User: %v", err)
				}
				if usr.Email != "new@theforge.in" {
					t.Errorf("usr.Email = %s", usr.Email)
				}
				if !usr.IsMember() {
					t.Errorf("expected the member role by default, got %v", usr.Roles)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_detail(t *testing.T) {
	app := setup(t)

	member := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "", []string{user.RoleMember}, true)
	other := testutil.CreateUser(t, usrRepo, "King Kaka", "king@theforge.in", "", []string{user.RoleMember}, true)
	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@theforge.in", "", []string{user.RoleAdmin}, true)

	memberToken := getToken(t, member)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "get self", method: http.MethodGet, path: "/v1/users/" + member.ID, token: memberToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, member),
		},
		{
			name: "get other (hidden)", method: http.MethodGet, path: "/v1/users/" + other.ID, token: memberToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "admin gets other", method: http.MethodGet, path: "/v1/users/" + other.ID, token: adminToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, other),
		},
		{
			name: "member cannot flip is_active", method: http.MethodPut, path: "/v1/users/" + member.ID, token: memberToken,
			body:     marchallObj(t, map[string]interface{}{"is_active": false}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "member cannot delete", method: http.MethodDelete, path: "/v1/users/" + other.ID, token: memberToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "admin cannot delete self", method: http.MethodDelete, path: "/v1/users/" + admin.ID, token: adminToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("member updates own name", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"full_name": "Awe M."})
		req, rec := newAuthRequest(http.MethodPut, "/v1/users/"+member.ID, memberToken, body)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
		var usr user.User
		if err := json.Unmarshal(rec.Body.Bytes(), &usr); err != nil {
			t.Fatalf("unmarshalling User: %v", err)
		}
		if usr.FullName != "Awe M." {
			t.Errorf("usr.FullName = %s", usr.FullName)
		}
	})

	t.Run("admin deletes other", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/users/"+other.ID, adminToken)
		app.ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_userApi_passwordReset(t *testing.T) {
	app := setup(t)

	usr := testutil.CreateUser(t, usrRepo, "Awe Mbuyi", "awe@theforge.in", "LePass@123", []string{user.RoleMember}, true)

	t.Run("request always succeeds", func(t *testing.T) {
		emailsvc.ClearSentMessages()

		for _, email := range []string{usr.Email, "unknown@theforge.in"} {
			body := marchallObj(t, PasswordResetRequest{Email: email})
			req, rec := newRequest(http.MethodPost, "/v1/users/password-reset", body)
			app.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("failed! code = %v; body = %s", rec.Code, rec.Body.String())
			}
		}

		// only the known account gets a mail, and it carries the reset link
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("len(SentMessages) = %d, want 1", len(emailsvc.SentMessages))
		}
		if !strings.Contains(emailsvc.SentMessages[0].TextContent, "/password-reset/"+user.EncodeUID(usr)+"/") {
			t.Error("expected the reset link in the mail body")
		}
	})

	confirmBody := func(uid, token string) []byte {
		return marchallObj(t, user.ResetUserPassword{
			Token:           token,
			UID:             uid,
			Password:        strongPwd,
			PasswordConfirm: strongPwd,
		})
	}

	t.Run("confirm with a bad link", func(t *testing.T) {
		body := confirmBody("lol", "lol")
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "invalid password reset link"}),
		}, rec)
	})

	t.Run("confirm with an expired token", func(t *testing.T) {
		restore := user.ExpirePasswordResetTokens()
		token := user.MakePasswordResetToken(usr)
		restore()

		body := confirmBody(user.EncodeUID(usr), token)
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "token expired"}),
		}, rec)
	})

	t.Run("confirm resets the password", func(t *testing.T) {
		body := confirmBody(user.EncodeUID(usr), user.MakePasswordResetToken(usr))
		req, rec := newRequest(http.MethodPost, "/v1/users/password-reset-confirm", body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, SuccessResponse{Success: "Password has been reset with the new password."}),
		}, rec)

		// the new password logs in
		loginBody := marchallObj(t, LoginRequest{Email: usr.Email, Password: strongPwd})
		req, rec = newRequest(http.MethodPost, "/v1/users/login", loginBody)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("login with new password failed! code = %v; body = %s", rec.Code, rec.Body.String())
		}
	})
}
