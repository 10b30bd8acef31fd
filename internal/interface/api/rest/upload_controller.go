package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"upload-server/internal/application/ports"
	domain "upload-server/internal/domain/upload"
	"upload-server/internal/interface/api/rest/dto/upload"
	"upload-server/internal/interface/api/rest/validator"
)

const fileField = "file"

type UploadController struct {
	uploadService ports.UploadService
	exportService ports.ExportService
	logger        *zap.Logger
}

func NewUploadController(
	r gin.IRouter,
	uploadService ports.UploadService,
	exportService ports.ExportService,
	logger *zap.Logger,
) *UploadController {
	uc := &UploadController{
		uploadService: uploadService,
		exportService: exportService,
		logger:        logger,
	}

	r.POST(RouteUploads, uc.UploadImageHandler)
	r.GET(RouteUploads, uc.ListUploadsHandler)
	r.POST(RouteExports, uc.ExportUploadsHandler)

	return uc
}

// UploadImageHandler godoc
//
//	@Summary	Upload an image
//	@Tags		uploads
//	@Accept		multipart/form-data
//	@Param		file	formData	file	true	"jpg, jpeg, png or webp, at most 5MB"
//	@Success	201
//	@Failure	400	{object}	upload.ErrorResponse
//	@Failure	500	{object}	upload.ErrorResponse
//	@Router		/uploads [post]
func (uc *UploadController) UploadImageHandler(c *gin.Context) {
	mr, err := c.Request.MultipartReader()
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgFileNotFound)
		return
	}

	part, err := nextFilePart(mr)
	if err != nil {
		abortWithMessage(c, http.StatusBadRequest, msgFileNotFound)
		return
	}
	defer part.Close()

	body := newSizeLimitReader(part, maxImageSize)
	_, err = uc.uploadService.UploadImage(c.Request.Context(), domain.ImageInput{
		FileName:    part.FileName(),
		ContentType: part.Header.Get("Content-Type"),
		Body:        body,
	})
	if err != nil {
		if body.Exceeded() {
			abortWithMessage(c, http.StatusBadRequest, msgFileTooLarge)
			return
		}
		abortWithError(c, uc.logger, "UploadImage()", err)
		return
	}

	c.Status(http.StatusCreated)
}

// nextFilePart skips form fields until the file part. The file is never
// buffered: the returned part reads straight from the request body.
func nextFilePart(mr *multipart.Reader) (*multipart.Part, error) {
	for {
		part, err := mr.NextPart()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, http.ErrMissingFile
			}
			return nil, err
		}
		if part.FormName() == fileField && part.FileName() != "" {
			return part, nil
		}
		_ = part.Close()
	}
}

// ListUploadsHandler godoc
//
//	@Summary	List uploads
//	@Tags		uploads
//	@Produce	json
//	@Param		searchQuery		query		string	false	"case-insensitive name substring"
//	@Param		sortBy			query		string	false	"createdAt"
//	@Param		sortDirection	query		string	false	"asc or desc"
//	@Param		page			query		int		false	"starting at 1"	default(1)
//	@Param		pageSize		query		int		false	"page size"		default(20)
//	@Success	200				{object}	upload.ListResponse
//	@Failure	400				{object}	upload.ErrorResponse
//	@Failure	500				{object}	upload.ErrorResponse
//	@Router		/uploads [get]
func (uc *UploadController) ListUploadsHandler(c *gin.Context) {
	params, issues := validator.ParseListQuery(upload.ListQuery{
		SearchQuery:   c.Query("searchQuery"),
		SortBy:        c.Query("sortBy"),
		SortDirection: c.Query("sortDirection"),
		Page:          c.Query("page"),
		PageSize:      c.Query("pageSize"),
	})
	if issues != nil {
		abortWithIssues(c, issues)
		return
	}

	page, err := uc.uploadService.ListUploads(c.Request.Context(), params)
	if err != nil {
		abortWithError(c, uc.logger, "ListUploads()", err)
		return
	}

	c.JSON(http.StatusOK, upload.ToResponseList(page))
}

// ExportUploadsHandler godoc
//
//	@Summary	Export uploads as a CSV report
//	@Tags		uploads
//	@Accept		json
//	@Produce	json
//	@Param		searchQuery	query		string					false	"case-insensitive name substring"
//	@Param		request		body		upload.ExportRequest	false	"filter"
//	@Success	200			{object}	upload.ExportResponse
//	@Failure	400			{object}	upload.ErrorResponse
//	@Failure	500			{object}	upload.ErrorResponse
//	@Router		/uploads/exports [post]
func (uc *UploadController) ExportUploadsHandler(c *gin.Context) {
	var req upload.ExportRequest
	if c.Request.ContentLength != 0 && c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			abortWithIssues(c, map[string]string{"body": "must be a JSON object"})
			return
		}
	}
	if req.SearchQuery == "" {
		req.SearchQuery = c.Query("searchQuery")
	}

	report, err := uc.exportService.ExportUploads(c.Request.Context(), domain.Filter{SearchQuery: req.SearchQuery})
	if err != nil {
		abortWithError(c, uc.logger, "ExportUploads()", err)
		return
	}

	c.JSON(http.StatusOK, upload.ExportResponse{ReportURL: report.URL})
}
