package cbr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/amortization"
	"github.com/BladePruebasSC/cloud-loans-web-sub006/internal/config"
	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"
)

// lendingMargin is added to the key rate to get a suggested lending rate
const lendingMargin = 5.0

// ReferenceRate is a suggested lending rate for the schedule simulator
type ReferenceRate struct {
	KeyRate float64 `json:"key_rate"`
	Annual  float64 `json:"annual_rate"`
	Monthly float64 `json:"monthly_rate"`
}

// CBRClient reads the key rate published by the Central Bank of Russia
type CBRClient struct {
	url    string
	client *http.Client
	log    *logrus.Logger
	now    func() time.Time
}

// NewCBRClient initializes a new CBR client
func NewCBRClient(cfg *config.Config, log *logrus.Logger) *CBRClient {
	return &CBRClient{
		url: cfg.CBRURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
		now: time.Now,
	}
}

// buildSOAPRequest creates a SOAP request for the last 30 days of key rates
func (c *CBRClient) buildSOAPRequest() string {
	now := c.now()
	fromDate := now.AddDate(0, 0, -30).Format("2006-01-02")
	toDate := now.Format("2006-01-02")
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
		<soap12:Envelope xmlns:soap12="http://www.w3.org/2003/05/soap-envelope">
			<soap12:Body>
				<KeyRate xmlns="http://web.cbr.ru/">
					<fromDate>%s</fromDate>
					<ToDate>%s</ToDate>
				</KeyRate>
			</soap12:Body>
		</soap12:Envelope>`, fromDate, toDate)
}

func (c *CBRClient) sendRequest(ctx context.Context, soapRequest string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewBufferString(soapRequest))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/soap+xml; charset=utf-8")
	req.Header.Set("SOAPAction", "http://web.cbr.ru/KeyRate")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	c.log.Debugf("CBR XML response: %s", string(body))
	return body, nil
}

// parseXMLResponse extracts the latest key rate
func parseXMLResponse(rawBody []byte) (float64, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return 0, fmt.Errorf("failed to parse XML: %w", err)
	}

	krElements := doc.FindElements("//diffgram/KeyRate/KR")
	if len(krElements) == 0 {
		return 0, fmt.Errorf("no key rate data found in XML")
	}

	// the service lists the newest rate first
	rateElement := krElements[0].FindElement("./Rate")
	if rateElement == nil {
		return 0, fmt.Errorf("rate element not found in XML")
	}

	var rate float64
	if _, err := fmt.Sscanf(rateElement.Text(), "%f", &rate); err != nil {
		return 0, fmt.Errorf("failed to parse rate: %w", err)
	}
	return rate, nil
}

// ReferenceRate returns the current key rate plus lending margin,
// annual and as the monthly percentage the simulator takes.
func (c *CBRClient) ReferenceRate(ctx context.Context) (ReferenceRate, error) {
	body, err := c.sendRequest(ctx, c.buildSOAPRequest())
	if err != nil {
		return ReferenceRate{}, err
	}
	keyRate, err := parseXMLResponse(body)
	if err != nil {
		return ReferenceRate{}, err
	}

	annual := keyRate + lendingMargin
	rate := ReferenceRate{
		KeyRate: keyRate,
		Annual:  annual,
		Monthly: amortization.Round2(annual / 12),
	}
	c.log.Infof("Retrieved key rate: %.2f%% (lending rate %.2f%%, %.2f%% monthly)", keyRate, annual, rate.Monthly)
	return rate, nil
}
