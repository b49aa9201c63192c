package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"

	contract "brigade/contracts/checkin"
)

// RegisterSteps registers all step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Background steps
	ctx.Step(`^the check-in service is running$`, tc.serviceIsRunning)

	// Issuing steps
	ctx.Step(`^I issue a code valid for "([^"]*)"$`, tc.issueCode)
	ctx.Step(`^I issue a code valid for "([^"]*)" at location "([^"]*)"$`, tc.issueCodeAtLocation)
	ctx.Step(`^I issue a code that expired "([^"]*)" ago$`, tc.issueExpiredCode)
	ctx.Step(`^I save the issued code$`, tc.saveIssuedCode)

	// Redemption steps
	ctx.Step(`^I redeem the saved code$`, tc.redeemSavedCode)
	ctx.Step(`^I redeem the code "([^"]*)"$`, tc.redeemCode)
	ctx.Step(`^I scan the saved code$`, tc.scanSavedCode)

	// Management steps
	ctx.Step(`^I toggle the saved code$`, tc.toggleSavedCode)
	ctx.Step(`^I fetch the saved code$`, tc.fetchSavedCode)
	ctx.Step(`^I list codes at location "([^"]*)"$`, tc.listCodesAtLocation)
	ctx.Step(`^I request the QR image for the saved code$`, tc.fetchSavedCodeQR)

	// Request steps
	ctx.Step(`^I POST to "([^"]*)" with empty body$`, tc.postWithEmptyBody)
	ctx.Step(`^I GET "([^"]*)" without the admin token$`, tc.getWithoutAdminToken)

	// Assertion steps
	ctx.Step(`^the response status should be (\d+)$`, tc.responseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.responseShouldContain)
	ctx.Step(`^the response field "([^"]*)" should equal "([^"]*)"$`, tc.responseFieldShouldEqual)
	ctx.Step(`^the response should be a check-in code with status "([^"]*)"$`, tc.responseShouldBeCodeWithStatus)
	ctx.Step(`^the response should be a PNG image$`, tc.responseShouldBePNG)
}

func (tc *TestContext) serviceIsRunning(ctx context.Context) error {
	if err := tc.GET("/health/live", nil); err != nil {
		return fmt.Errorf("check-in service not reachable at %s: %w", tc.BaseURL, err)
	}
	if tc.LastResponse.StatusCode != 200 {
		return fmt.Errorf("liveness probe returned %d", tc.LastResponse.StatusCode)
	}
	return nil
}

func (tc *TestContext) issueCode(ctx context.Context, ttl string) error {
	return tc.issueCodeAtLocation(ctx, ttl, "")
}

func (tc *TestContext) issueCodeAtLocation(ctx context.Context, ttl, location string) error {
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", ttl, err)
	}
	body := map[string]interface{}{
		"valid_until": time.Now().Add(d).UTC().Format(time.RFC3339),
		"location":    location,
	}
	return tc.POSTAdmin("/admin/checkin/codes", body)
}

func (tc *TestContext) issueExpiredCode(ctx context.Context, age string) error {
	d, err := time.ParseDuration(age)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", age, err)
	}
	body := map[string]interface{}{
		"valid_until": time.Now().Add(-d).UTC().Format(time.RFC3339),
	}
	return tc.POSTAdmin("/admin/checkin/codes", body)
}

func (tc *TestContext) saveIssuedCode(ctx context.Context) error {
	var c contract.Code
	if err := json.Unmarshal(tc.LastResponseBody, &c); err != nil {
		return fmt.Errorf("failed to unmarshal issued code: %w", err)
	}
	if c.Code == "" {
		return fmt.Errorf("issue response carried no code: %s", string(tc.LastResponseBody))
	}
	tc.IssuedCode = c.Code
	tc.IssuedID = c.ID
	return nil
}

func (tc *TestContext) redeemSavedCode(ctx context.Context) error {
	return tc.redeemCode(ctx, tc.IssuedCode)
}

func (tc *TestContext) redeemCode(ctx context.Context, code string) error {
	return tc.POST("/checkin/redeem", map[string]interface{}{"code": code})
}

func (tc *TestContext) scanSavedCode(ctx context.Context) error {
	return tc.GET("/checkin/scan?code="+tc.IssuedCode, nil)
}

func (tc *TestContext) toggleSavedCode(ctx context.Context) error {
	return tc.POSTAdmin("/admin/checkin/codes/"+tc.IssuedID+"/toggle", nil)
}

func (tc *TestContext) fetchSavedCode(ctx context.Context) error {
	return tc.GETAdmin("/admin/checkin/codes/" + tc.IssuedID)
}

func (tc *TestContext) listCodesAtLocation(ctx context.Context, location string) error {
	return tc.GETAdmin("/admin/checkin/codes?location=" + location)
}

func (tc *TestContext) fetchSavedCodeQR(ctx context.Context) error {
	return tc.GETAdmin("/admin/checkin/codes/" + tc.IssuedID + "/qr")
}

func (tc *TestContext) postWithEmptyBody(ctx context.Context, path string) error {
	return tc.POSTAdmin(path, map[string]interface{}{})
}

func (tc *TestContext) getWithoutAdminToken(ctx context.Context, path string) error {
	return tc.GET(path, nil)
}

func (tc *TestContext) responseStatusShouldBe(ctx context.Context, status int) error {
	if tc.LastResponse == nil {
		return fmt.Errorf("no response recorded")
	}
	if tc.LastResponse.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s",
			status, tc.LastResponse.StatusCode, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseShouldContain(ctx context.Context, text string) error {
	if !strings.Contains(string(tc.LastResponseBody), text) {
		return fmt.Errorf("response does not contain %q: %s", text, string(tc.LastResponseBody))
	}
	return nil
}

func (tc *TestContext) responseFieldShouldEqual(ctx context.Context, field, expected string) error {
	value, err := tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if fmt.Sprintf("%v", value) != expected {
		return fmt.Errorf("expected field %q to equal %q, got %v", field, expected, value)
	}
	return nil
}

func (tc *TestContext) responseShouldBeCodeWithStatus(ctx context.Context, status string) error {
	var c contract.Code
	if err := json.Unmarshal(tc.LastResponseBody, &c); err != nil {
		return fmt.Errorf("failed to unmarshal code: %w", err)
	}
	if c.Status != status {
		return fmt.Errorf("expected status %q, got %q", status, c.Status)
	}
	return nil
}

func (tc *TestContext) responseShouldBePNG(ctx context.Context) error {
	if ct := tc.LastResponse.Header.Get("Content-Type"); ct != "image/png" {
		return fmt.Errorf("expected image/png, got %q", ct)
	}
	if len(tc.LastResponseBody) < 8 || tc.LastResponseBody[1] != 'P' {
		return fmt.Errorf("response body is not a PNG image")
	}
	return nil
}
