package app

import (
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stvlynn/edgeone-dify-plugin/models"
)

func (app *Application) Router() *echo.Echo {
	e := echo.New()
	e.Pre(middleware.RemoveTrailingSlash())

	e.GET("/healthz", HandleHealthz)

	e.POST("/tools/deploy-html", app.HandleDeployHTML)
	e.POST("/tools/deploy-zip", app.HandleDeployZip)
	e.POST("/settings/validate", app.HandleValidateSettings)

	return e
}

func HandleHealthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (app *Application) HandleDeployHTML(c echo.Context) error {
	req := HTMLDeployRequest{}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, models.ErrHTMLContentRequired.Error())
	}

	url, err := app.DeployService.DeployHTML(c.Request().Context(), req.HTMLContent)
	if err != nil {
		c.Logger().Error(err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, DeployResponse{
		Success: true,
		URL:     url,
		Type:    "html_deployment",
		Message: "HTML deployed successfully to EdgeOne Pages",
	})
}

func (app *Application) HandleDeployZip(c echo.Context) error {
	fileHeader, err := c.FormFile("zip_file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, models.ErrZipFileRequired.Error())
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.Logger().Error(err)
		return err
	}
	defer src.Close()

	// One byte over the limit is enough for the size check to fire.
	content, err := io.ReadAll(io.LimitReader(src, maxArchiveSize+1))
	if err != nil {
		c.Logger().Error(err)
		return err
	}

	url, err := app.DeployService.DeployZip(c.Request().Context(), ZipDeployRequest{
		Filename:    fileHeader.Filename,
		Content:     content,
		Environment: c.FormValue("environment"),
	})
	if err != nil {
		c.Logger().Error(err)
		return httpError(err)
	}

	environment := c.FormValue("environment")
	if environment == "" {
		environment = models.EnvironmentProduction
	}

	return c.JSON(http.StatusOK, DeployResponse{
		Success:     true,
		URL:         url,
		Environment: environment,
		Type:        "zip_deployment",
		Message:     fmt.Sprintf("ZIP file %s deployed successfully to EdgeOne Pages", fileHeader.Filename),
	})
}

func (app *Application) HandleValidateSettings(c echo.Context) error {
	if err := app.DeployService.ValidateCredentials(c.Request().Context()); err != nil {
		c.Logger().Error(err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"valid": true})
}
