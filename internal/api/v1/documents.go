package api

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/hashicorp-forge/docrepo/internal/catalog"
	"github.com/hashicorp-forge/docrepo/internal/server"
	"github.com/hashicorp-forge/docrepo/pkg/models"
)

type DocumentPatchRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	AccessLevel *string `json:"accessLevel,omitempty"`
}

type AttachTagRequest struct {
	TagID uint `json:"tagId"`
}

// DocumentsHandler serves the document catalog:
//
//	GET    /api/v1/documents                       list (filtered, ?q= title search)
//	POST   /api/v1/documents                       create (multipart: file + metadata)
//	GET    /api/v1/documents/{id}                  metadata
//	PATCH  /api/v1/documents/{id}                  update metadata
//	DELETE /api/v1/documents/{id}                  delete (cascades)
//	GET    /api/v1/documents/{id}/versions         version history
//	POST   /api/v1/documents/{id}/versions         append version (multipart: file)
//	GET    /api/v1/documents/{id}/versions/{n}     one version
//	GET    /api/v1/documents/{id}/versions/{n}/content  stored content
//	GET    /api/v1/documents/{id}/tags             tags on the document
//	POST   /api/v1/documents/{id}/tags             attach a tag
//	DELETE /api/v1/documents/{id}/tags/{tagId}     detach a tag
func DocumentsHandler(srv server.Server) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logArgs := []interface{}{
			"method", r.Method,
			"path", r.URL.Path,
		}
		actor, ok := actingUser(w, r)
		if !ok {
			return
		}

		parts := resourcePath(r, "/api/v1/documents")
		switch {
		case len(parts) == 0:
			documentCollection(srv, w, r, actor, logArgs)
		case len(parts) == 1:
			documentResource(srv, w, r, actor, parts[0], logArgs)
		case len(parts) >= 2 && parts[1] == "versions":
			documentVersions(srv, w, r, actor, parts, logArgs)
		case len(parts) >= 2 && parts[1] == "tags":
			documentTags(srv, w, r, actor, parts, logArgs)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}

func documentCollection(srv server.Server, w http.ResponseWriter, r *http.Request, actor *models.User, logArgs []interface{}) {
	switch r.Method {
	case http.MethodGet:
		docs, err := srv.Catalog.ListDocuments(r.Context(), actor, r.URL.Query().Get("q"))
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, docs)

	case http.MethodPost:
		content, fileName, ok := readUpload(srv, w, r)
		if !ok {
			return
		}
		doc, err := srv.Catalog.CreateDocument(r.Context(), actor, catalog.CreateDocumentInput{
			Title:       r.FormValue("title"),
			Description: r.FormValue("description"),
			AccessLevel: r.FormValue("accessLevel"),
			FileName:    fileName,
			Content:     content,
		})
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusCreated, doc)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func documentResource(srv server.Server, w http.ResponseWriter, r *http.Request, actor *models.User, id string, logArgs []interface{}) {
	switch r.Method {
	case http.MethodGet:
		doc, err := srv.Catalog.GetDocument(r.Context(), actor, id)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, doc)

	case http.MethodPatch:
		req := DocumentPatchRequest{}
		if err := decodeRequest(r, &req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		doc, err := srv.Catalog.UpdateDocument(r.Context(), actor, id, catalog.DocumentUpdate{
			Title:       req.Title,
			Description: req.Description,
			AccessLevel: req.AccessLevel,
		})
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, doc)

	case http.MethodDelete:
		if err := srv.Catalog.DeleteDocument(r.Context(), actor, id); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func documentVersions(srv server.Server, w http.ResponseWriter, r *http.Request, actor *models.User, parts []string, logArgs []interface{}) {
	id := parts[0]

	switch {
	case len(parts) == 2:
		switch r.Method {
		case http.MethodGet:
			versions, err := srv.Catalog.ListVersions(r.Context(), actor, id)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, versions)

		case http.MethodPost:
			content, fileName, ok := readUpload(srv, w, r)
			if !ok {
				return
			}
			version, err := srv.Catalog.AddVersion(r.Context(), actor, id, content, fileName)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusCreated, version)

		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}

	case len(parts) == 3 || (len(parts) == 4 && parts[3] == "content"):
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		number, err := strconv.Atoi(parts[2])
		if err != nil || number < 1 {
			http.Error(w, "Bad request: invalid version number", http.StatusBadRequest)
			return
		}

		if len(parts) == 3 {
			version, err := srv.Catalog.GetVersion(r.Context(), actor, id, number)
			if err != nil {
				respondError(w, srv.Logger, err, logArgs...)
				return
			}
			respondJSON(w, srv.Logger, http.StatusOK, version)
			return
		}

		content, version, err := srv.Catalog.DownloadVersion(r.Context(), actor, id, number)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.Header().Set("Content-Type", "application/octet-stream")
		if version.FileName != "" {
			w.Header().Set("Content-Disposition",
				fmt.Sprintf("attachment; filename=%q", version.FileName))
		}
		if _, err := w.Write(content); err != nil {
			srv.Logger.Error("error writing version content",
				append([]interface{}{"error", err}, logArgs...)...)
		}

	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func documentTags(srv server.Server, w http.ResponseWriter, r *http.Request, actor *models.User, parts []string, logArgs []interface{}) {
	id := parts[0]

	switch {
	case len(parts) == 2 && r.Method == http.MethodGet:
		tags, err := srv.Catalog.ListDocumentTags(r.Context(), actor, id)
		if err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		respondJSON(w, srv.Logger, http.StatusOK, tags)

	case len(parts) == 2 && r.Method == http.MethodPost:
		req := AttachTagRequest{}
		if err := decodeRequest(r, &req); err != nil {
			http.Error(w, "Bad request: invalid JSON", http.StatusBadRequest)
			return
		}
		if err := srv.Catalog.AttachTag(r.Context(), actor, id, req.TagID); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case len(parts) == 3 && r.Method == http.MethodDelete:
		tagID, err := strconv.ParseUint(parts[2], 10, 32)
		if err != nil {
			http.Error(w, "Bad request: invalid tag id", http.StatusBadRequest)
			return
		}
		if err := srv.Catalog.DetachTag(r.Context(), actor, id, uint(tagID)); err != nil {
			respondError(w, srv.Logger, err, logArgs...)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// readUpload extracts the uploaded file from a multipart form.
func readUpload(srv server.Server, w http.ResponseWriter, r *http.Request) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "Bad request: expected multipart form", http.StatusBadRequest)
		return nil, "", false
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "Bad request: file field is required", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respondError(w, srv.Logger, err)
		return nil, "", false
	}
	return content, header.Filename, true
}
