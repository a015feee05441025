package handler

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	profiledomain "profile-service-go/internal/domain/profile"
)

const (
	ProfileSourceHeader = "X-Profile-Source"

	msgDatabaseFailed = "Database operation failed"
	msgInvalidBody    = "invalid request body"

	maxMultipartMemory = 1 << 20
)

var errTrailingData = errors.New("unexpected data after JSON body")

// profileRequest lists the fields a caller may set. Unknown keys, including
// userid, are ignored.
type profileRequest struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Interests *string `json:"interests"`
}

type profileResponse struct {
	ID        string  `json:"id,omitempty"`
	UserID    int     `json:"userid,omitempty"`
	Name      *string `json:"name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Interests *string `json:"interests,omitempty"`
}

func (h *Handlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	doc, err := decodeProfileRequest(r)
	if err != nil {
		h.log.BusinessError("profiles.update: invalid body", err, "content_type", r.Header.Get("Content-Type"))
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.Profiles.UpdateProfile(r.Context(), doc)
	if err != nil {
		h.log.InternalError("profiles.update: upsert failed", err, "userid", profiledomain.SingletonUserID)
		writeError(w, http.StatusInternalServerError, msgDatabaseFailed)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(result))
}

func (h *Handlers) GetProfile(w http.ResponseWriter, r *http.Request) {
	result, source, err := h.Profiles.GetProfile(r.Context())
	w.Header().Set(ProfileSourceHeader, string(source))

	switch {
	case err != nil:
		h.log.InternalError("profiles.get: lookup failed", err, "userid", profiledomain.SingletonUserID, "masked", h.opts.MaskReadErrors)
		if !h.opts.MaskReadErrors {
			writeError(w, http.StatusServiceUnavailable, msgDatabaseFailed)
			return
		}
	case source == profiledomain.SourceDefault:
		h.log.Debug("profiles.get: no stored profile, serving default")
	}

	writeJSON(w, http.StatusOK, toProfileResponse(result))
}

func decodeProfileRequest(r *http.Request) (profiledomain.Document, error) {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		mediaType = ""
	}

	switch mediaType {
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return profiledomain.Document{}, err
		}
		return documentFromForm(r), nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return profiledomain.Document{}, err
		}
		return documentFromForm(r), nil
	default:
		var req profileRequest
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&req); err != nil {
			if errors.Is(err, io.EOF) {
				return profiledomain.Document{}, nil
			}
			return profiledomain.Document{}, err
		}
		if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
			return profiledomain.Document{}, errTrailingData
		}
		return profiledomain.Document{
			Name:      req.Name,
			Email:     req.Email,
			Interests: req.Interests,
		}, nil
	}
}

func documentFromForm(r *http.Request) profiledomain.Document {
	return profiledomain.Document{
		Name:      formValue(r, "name"),
		Email:     formValue(r, "email"),
		Interests: formValue(r, "interests"),
	}
}

func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	value := values[0]
	return &value
}

func toProfileResponse(profile *profiledomain.Profile) profileResponse {
	return profileResponse{
		ID:        profile.ID,
		UserID:    profile.UserID,
		Name:      profile.Document.Name,
		Email:     profile.Document.Email,
		Interests: profile.Document.Interests,
	}
}
