package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/andreyxaxa/LocalStoreConnect/internal/entity"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/hasher"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/processor"
	"github.com/andreyxaxa/LocalStoreConnect/internal/infrastructure/token"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/cache"
	"github.com/andreyxaxa/LocalStoreConnect/internal/repo/repotest"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/category"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/credential"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/objectgateway"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/post"
	"github.com/andreyxaxa/LocalStoreConnect/internal/usecase/profile"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const maxFileSize = 1024

type testApp struct {
	app        *fiber.App
	storage    *repotest.Storage
	releases   *repotest.Releases
	categories *repotest.CategoryRepo
}

func newTestApp() *testApp {
	l := repotest.NopLogger{}
	storage := repotest.NewStorage()
	releases := &repotest.Releases{}
	tx := &repotest.Transactor{}
	owners := repotest.NewOwnerRepo()
	ownerCache := cache.NewOwnerCache(time.Minute)
	categories := &repotest.CategoryRepo{}

	posts := repotest.NewPostRepo()
	posts.Owners = owners
	posts.Categories = categories

	gw := objectgateway.New(storage, releases, l)
	prof := profile.New(owners, gw, releases, tx, ownerCache, l)

	uc := UseCases{
		Credential: credential.New(prof, owners, ownerCache, token.NewIssuer("secret", time.Hour), hasher.NewBcrypt(bcrypt.MinCost), l),
		Profile:    prof,
		Post:       post.New(posts, gw, releases, tx, l),
		Category:   category.New(categories, gw, processor.New(), l),
	}

	app := fiber.New()
	NewRoutes(app.Group("/api"), uc, l, maxFileSize)

	return &testApp{app: app, storage: storage, releases: releases, categories: categories}
}

func (a *testApp) category(t *testing.T) string {
	t.Helper()

	c := &entity.Category{ID: uuid.New(), Name: "Bakery", Icon: repotest.BaseURL + "/categoryicons/x.png", IconKey: "categoryicons/x.png", CreatedAt: time.Now()}
	require.NoError(t, a.categories.Create(context.Background(), c))

	return c.ID.String()
}

func imageURL(t *testing.T, post map[string]any) string {
	t.Helper()

	nodes := post["data"].(map[string]any)["nodes"].([]any)
	images := nodes[0].(map[string]any)["data"].(map[string]any)["images"].([]any)
	require.NotEmpty(t, images)

	return images[0].(string)
}

func (a *testApp) do(t *testing.T, method, path, body, bearer string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if bearer != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+bearer)
	}

	return a.send(t, req)
}

func (a *testApp) send(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	out := map[string]any{}
	if len(b) > 0 {
		require.NoError(t, json.Unmarshal(b, &out), string(b))
	}

	return resp.StatusCode, out
}

const registerBody = `{"email":"a@b.com","password":"s3cret!","businessName":"X","openingTime":"09:00","closingTime":"18:00","bookingDuration":30,"maxBookings":10}`

// register returns the new account id and its token.
func (a *testApp) register(t *testing.T, body string) (string, string) {
	t.Helper()

	code, out := a.do(t, http.MethodPost, "/api/businessowner/register", body, "")
	require.Equal(t, http.StatusCreated, code, out)

	user := out["user"].(map[string]any)

	return user["_id"].(string), user["token"].(string)
}

func TestRegister(t *testing.T) {
	a := newTestApp()

	code, out := a.do(t, http.MethodPost, "/api/businessowner/register", registerBody, "")
	require.Equal(t, http.StatusCreated, code)

	user, ok := out["user"].(map[string]any)
	require.True(t, ok)
	assert.NotEmpty(t, user["token"])
	assert.NotEmpty(t, user["_id"])
	assert.Equal(t, "a@b.com", user["email"])
	assert.NotContains(t, user, "phoneNumber")
	assert.NotContains(t, user, "password")
	assert.Equal(t, "User registered successfully.", out["message"])
}

func TestRegister_WrappedBody(t *testing.T) {
	a := newTestApp()

	body := `{"user":{"phoneNumber":"+1000000","businessName":"X","openingTime":"09:00","closingTime":"18:00","bookingDuration":30,"maxBookings":10},"password":"s3cret!"}`

	code, out := a.do(t, http.MethodPost, "/api/businessowner/register", body, "")
	require.Equal(t, http.StatusCreated, code, out)
	assert.Equal(t, "+1000000", out["user"].(map[string]any)["phoneNumber"])
}

func TestRegister_Errors(t *testing.T) {
	a := newTestApp()

	code, out := a.do(t, http.MethodPost, "/api/businessowner/register", `{"businessName":"X","openingTime":"09:00","closingTime":"18:00","bookingDuration":30,"maxBookings":10}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "invalid or missing fields", out["error"])

	code, _ = a.do(t, http.MethodPost, "/api/businessowner/register", `{"email":"not-an-email"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = a.do(t, http.MethodPost, "/api/businessowner/register", `{`, "")
	assert.Equal(t, http.StatusBadRequest, code)

	a.register(t, registerBody)
	code, out = a.do(t, http.MethodPost, "/api/businessowner/register", registerBody, "")
	assert.Equal(t, http.StatusConflict, code)
	assert.NotContains(t, out["error"], "record")
}

func TestLogin(t *testing.T) {
	a := newTestApp()
	id, _ := a.register(t, registerBody)

	code, out := a.do(t, http.MethodPost, "/api/businessowner/login", `{"usernameOrEmailOrPhone":"a@b.com","password":"s3cret!"}`, "")
	require.Equal(t, http.StatusOK, code)
	assert.NotEmpty(t, out["token"])
	assert.Equal(t, id, out["user"].(map[string]any)["_id"])

	code, out = a.do(t, http.MethodPost, "/api/businessowner/login", `{"usernameOrEmailOrPhone":"a@b.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.NotContains(t, out, "token")

	code, _ = a.do(t, http.MethodPost, "/api/businessowner/login", `{"password":"s3cret!"}`, "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, fileName, contentType string, data []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if fileField != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="`+fileField+`"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	return req
}

func TestUploadFile(t *testing.T) {
	a := newTestApp()
	id, _ := a.register(t, registerBody)

	req := multipartRequest(t, "/api/businessowner/upload", map[string]string{"userId": id}, "file", "me.png", "image/png", []byte("png"))
	code, out := a.send(t, req)
	require.Equal(t, http.StatusOK, code, out)
	assert.True(t, strings.HasPrefix(out["fileUrl"].(string), repotest.BaseURL+"/user-files/"+id+"-"))

	code, out = a.do(t, http.MethodGet, "/api/businessowner/"+id, "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, a.storage.Len())
	assert.NotEmpty(t, out["data"].(map[string]any)["profilePicture"])
}

func TestUploadFile_Errors(t *testing.T) {
	a := newTestApp()
	id, _ := a.register(t, registerBody)

	tests := []struct {
		name        string
		fields      map[string]string
		fileField   string
		fileName    string
		contentType string
		data        []byte
		code        int
	}{
		{"no user id", nil, "file", "me.png", "image/png", []byte("x"), http.StatusBadRequest},
		{"no file", map[string]string{"userId": id}, "", "", "", nil, http.StatusBadRequest},
		{"unknown user", map[string]string{"userId": uuid.NewString()}, "file", "me.png", "image/png", []byte("x"), http.StatusNotFound},
		{"wrong type", map[string]string{"userId": id}, "file", "me.txt", "text/plain", []byte("x"), http.StatusUnsupportedMediaType},
		{"too large", map[string]string{"userId": id}, "file", "me.png", "image/png", bytes.Repeat([]byte("x"), maxFileSize+1), http.StatusRequestEntityTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, "/api/businessowner/upload", tt.fields, tt.fileField, tt.fileName, tt.contentType, tt.data)
			code, _ := a.send(t, req)
			assert.Equal(t, tt.code, code)
		})
	}

	assert.Equal(t, 0, a.storage.Len())
}

func TestUpdateOwner_OwnAccountOnly(t *testing.T) {
	a := newTestApp()
	id, tok := a.register(t, registerBody)
	_, otherTok := a.register(t, strings.Replace(registerBody, "a@b.com", "c@d.com", 1))

	code, _ := a.do(t, http.MethodPut, "/api/businessowner/"+id, `{"bio":"hello"}`, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = a.do(t, http.MethodPut, "/api/businessowner/"+id, `{"bio":"hello"}`, otherTok)
	assert.Equal(t, http.StatusForbidden, code)

	code, out := a.do(t, http.MethodPut, "/api/businessowner/"+id, `{"bio":"hello"}`, tok)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "hello", out["data"].(map[string]any)["bio"])

	code, _ = a.do(t, http.MethodPut, "/api/businessowner/"+id, `{"email":"c@d.com"}`, tok)
	assert.Equal(t, http.StatusConflict, code)
}

func TestPosts(t *testing.T) {
	a := newTestApp()
	id, tok := a.register(t, registerBody)
	categoryID := a.category(t)

	body := `{"creatorId":"` + id + `","categoryId":"` + categoryID + `","submitted":false,"data":{"nodes":[{"id":"1","type":"image","data":{"images":["data:image/png;base64,aGVsbG8="]}}]}}`

	code, _ := a.do(t, http.MethodPost, "/api/post/create", body, "")
	assert.Equal(t, http.StatusUnauthorized, code)

	code, out := a.do(t, http.MethodPost, "/api/post/create", body, tok)
	require.Equal(t, http.StatusCreated, code, out)

	created := out["data"].(map[string]any)
	postID := created["_id"].(string)
	firstURL := imageURL(t, created)
	assert.True(t, strings.HasPrefix(firstURL, repotest.BaseURL+"/post-images/"))

	code, out = a.do(t, http.MethodPost, "/api/post/create", body, tok)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, postID, out["data"].(map[string]any)["_id"])

	firstKey := strings.TrimPrefix(firstURL, repotest.BaseURL+"/")
	currentKey := strings.TrimPrefix(imageURL(t, out["data"].(map[string]any)), repotest.BaseURL+"/")
	assert.NotEqual(t, firstKey, currentKey)
	assert.Equal(t, []string{firstKey}, a.releases.Snapshot(), "replaced upload is queued for release")
	assert.Equal(t, entity.ReasonDraftReplaced, a.releases.Reason[firstKey])

	code, out = a.do(t, http.MethodGet, "/api/post/user/"+id, "", tok)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["data"], 1)

	code, out = a.do(t, http.MethodPost, "/api/post", `{"categoryId":"`+categoryID+`","submitted":false}`, tok)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["data"], 1)

	code, _ = a.do(t, http.MethodGet, "/api/post/"+postID, "", tok)
	assert.Equal(t, http.StatusOK, code)

	code, out = a.do(t, http.MethodPost, "/api/post/delete", `{"postId":"`+postID+`"}`, tok)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, out["deletedCount"])
	assert.False(t, a.storage.Has(currentKey))

	code, _ = a.do(t, http.MethodGet, "/api/post/"+postID, "", tok)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = a.do(t, http.MethodPost, "/api/post/delete", `{"postId":"`+postID+`"}`, tok)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPosts_Forbidden(t *testing.T) {
	a := newTestApp()
	id, tok := a.register(t, registerBody)
	_, otherTok := a.register(t, strings.Replace(registerBody, "a@b.com", "c@d.com", 1))

	body := `{"creatorId":"` + id + `","categoryId":"` + a.category(t) + `","data":{"nodes":[]}}`

	code, _ := a.do(t, http.MethodPost, "/api/post/create", body, otherTok)
	assert.Equal(t, http.StatusForbidden, code)

	code, out := a.do(t, http.MethodPost, "/api/post/create", body, tok)
	require.Equal(t, http.StatusCreated, code)
	postID := out["data"].(map[string]any)["_id"].(string)

	code, _ = a.do(t, http.MethodPost, "/api/post/delete", `{"postId":"`+postID+`"}`, otherTok)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.do(t, http.MethodPost, "/api/post/delete", `{"postId":"nope"}`, tok)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPosts_DeletePartialFailure(t *testing.T) {
	a := newTestApp()
	id, tok := a.register(t, registerBody)

	body := `{"creatorId":"` + id + `","categoryId":"` + a.category(t) + `","data":{"nodes":[{"id":"1","data":{"images":["data:image/png;base64,aGVsbG8="]}}]}}`
	code, out := a.do(t, http.MethodPost, "/api/post/create", body, tok)
	require.Equal(t, http.StatusCreated, code)
	postID := out["data"].(map[string]any)["_id"].(string)

	for key := range a.storage.Objects {
		a.storage.FailDelete[key] = true
	}

	code, out = a.do(t, http.MethodPost, "/api/post/delete", `{"postId":"`+postID+`"}`, tok)
	require.Equal(t, http.StatusInternalServerError, code)
	assert.EqualValues(t, 1, out["deletedCount"])
	assert.Len(t, out["failedKeys"], 1)

	code, _ = a.do(t, http.MethodGet, "/api/post/"+postID, "", tok)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestPosts_UnknownCategory(t *testing.T) {
	a := newTestApp()
	id, tok := a.register(t, registerBody)

	body := `{"creatorId":"` + id + `","categoryId":"` + uuid.NewString() + `","data":{"nodes":[{"id":"1","data":{"images":["data:image/png;base64,aGVsbG8="]}}]}}`

	code, out := a.do(t, http.MethodPost, "/api/post/create", body, tok)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not found", out["error"])
	assert.Equal(t, 0, a.storage.Len())
}

func pngBytes(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 64, 48))))

	return buf.Bytes()
}

func TestCreateCategory(t *testing.T) {
	a := newTestApp()

	req := multipartRequest(t, "/api/category/create", map[string]string{"name": "Bakery"}, "iconUrl", "icon.png", "image/png", pngBytes(t))
	code, out := a.send(t, req)
	require.Equal(t, http.StatusCreated, code, out)
	assert.Equal(t, "Bakery", out["data"].(map[string]any)["name"])
	assert.Equal(t, 1, a.storage.Len())

	code, out = a.do(t, http.MethodGet, "/api/category", "", "")
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, out["data"], 1)
}

func TestCreateCategory_IconTypes(t *testing.T) {
	a := newTestApp()

	tests := []struct {
		name        string
		fileName    string
		contentType string
	}{
		{"webp", "icon.webp", "image/webp"},
		{"text", "icon.txt", "text/plain"},
		{"mismatched extension", "icon.webp", "image/png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := multipartRequest(t, "/api/category/create", map[string]string{"name": "Bakery"}, "iconUrl", tt.fileName, tt.contentType, []byte("x"))
			code, out := a.send(t, req)
			assert.Equal(t, http.StatusUnsupportedMediaType, code)
			assert.Equal(t, "unsupported file type. Allowed: jpeg, png, gif", out["error"])
		})
	}

	assert.Equal(t, 0, a.storage.Len())
}

func TestUploadFile_AcceptsWebp(t *testing.T) {
	a := newTestApp()
	id, _ := a.register(t, registerBody)

	req := multipartRequest(t, "/api/businessowner/upload", map[string]string{"userId": id}, "file", "me.webp", "image/webp", []byte("x"))
	code, out := a.send(t, req)
	require.Equal(t, http.StatusOK, code, out)
	assert.NotEmpty(t, out["fileUrl"])
}
