package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"

	"github.com/workgraphui/manager/helper"
	"github.com/workgraphui/manager/upload"

	"github.com/labstack/echo/v4"
)

func (m *ManagerHandler) nodePrefix(c echo.Context) (int, string, error) {
	pk, err := strconv.Atoi(c.Param("pk"))
	if err != nil {
		return 0, "", renderPopupOrJson(c, http.StatusBadRequest, "pk must be an integer")
	}
	if _, err := m.nodeDB.SelectNode(pk); err != nil {
		return 0, "", renderPopupOrJson(c, http.StatusNotFound, fmt.Sprintf("No node found with pk %d", pk))
	}
	return pk, upload.NodePrefix(pk), nil
}

// ListNodeFiles returns the repository files of a node.
func (m *ManagerHandler) ListNodeFiles(c echo.Context) error {
	pk, prefix, err := m.nodePrefix(c)
	if prefix == "" {
		return err
	}

	files, err := m.filesystem.ListFiles(prefix)
	if err != nil {
		m.logger.Error("Listing node files failed", "pk", pk, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "failed to list files"})
	}

	return c.JSON(http.StatusOK, map[string]any{"files": files})
}

// UploadNodeFiles stores uploaded files in the node's repository.
func (m *ManagerHandler) UploadNodeFiles(c echo.Context) error {
	pk, prefix, err := m.nodePrefix(c)
	if prefix == "" {
		return err
	}

	// Parse multipart form with 32MB max memory
	err = c.Request().ParseMultipartForm(32 << 20)
	if err != nil {
		return renderPopupOrJson(c, http.StatusBadRequest, fmt.Sprintf("Failed to parse multipart form: %v", err))
	}

	form := c.Request().MultipartForm
	defer form.RemoveAll()

	files := form.File["files"]
	if len(files) == 0 {
		return renderPopupOrJson(c, http.StatusBadRequest, "No files found in the request")
	}

	var uploadedFiles []string
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Failed to open file %s: %v", fileHeader.Filename, err))
		}
		defer file.Close()

		filename := filepath.Base(fileHeader.Filename)
		err = m.filesystem.Write(prefix+"/"+filename, file, fileHeader.Size)
		if err != nil {
			return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Failed to save file %s: %v", filename, err))
		}

		uploadedFiles = append(uploadedFiles, filename)
	}

	m.logger.Info("Stored node files", "pk", pk, "count", len(uploadedFiles))
	c.Response().Header().Add("HX-Trigger-After-Settle", "reloadFiles")

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("%v file(s) uploaded successfully", len(uploadedFiles)))
}

// DownloadNodeFile streams one repository file of a node.
func (m *ManagerHandler) DownloadNodeFile(c echo.Context) error {
	_, prefix, err := m.nodePrefix(c)
	if prefix == "" {
		return err
	}

	filename := filepath.Base(c.Param("filename"))
	reader, err := m.filesystem.Open(prefix + "/" + filename)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"detail": fmt.Sprintf("No file %s found", filename)})
	}
	defer reader.Close()

	return c.Stream(http.StatusOK, helper.GetMimeType(filename), reader)
}

// DeleteNodeFile removes one repository file of a node.
func (m *ManagerHandler) DeleteNodeFile(c echo.Context) error {
	pk, prefix, err := m.nodePrefix(c)
	if prefix == "" {
		return err
	}

	filename := filepath.Base(c.Param("filename"))
	err = m.filesystem.Delete(prefix + "/" + filename)
	if err != nil {
		m.logger.Error("Deleting node file failed", "pk", pk, "file", filename, "error", err)
		return renderPopupOrJson(c, http.StatusInternalServerError, fmt.Sprintf("Failed to delete file %s: %v", filename, err))
	}

	c.Response().Header().Add("HX-Trigger-After-Settle", "reloadFiles")

	return renderPopupOrJson(c, http.StatusOK, fmt.Sprintf("File %s deleted successfully", filename))
}
