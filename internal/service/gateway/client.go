package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"OptionPulse/internal/domain/models"
	drepo "OptionPulse/internal/domain/repository"
	applogger "OptionPulse/pkg/logger"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned for calls made before Connect succeeds.
var ErrNotConnected = errors.New("not connected")

// ErrTimeout is returned when the broker does not answer within the
// configured request timeout.
var ErrTimeout = errors.New("request timed out")

// Config holds broker connection settings.
type Config struct {
	URL            string
	Token          string
	BalanceType    string // PRACTICE or REAL
	RequestTimeout time.Duration
	ReconnectDelay time.Duration
	PingInterval   time.Duration
}

// Client implements repository.Gateway over a broker WebSocket session.
// Every call is a correlated request/response pair: the client tags each
// outgoing frame with an id and the read loop routes the matching answer
// back to the waiting caller.
type Client struct {
	cfg Config
	log *applogger.Logger

	writeMu   sync.Mutex // serializes WriteJSON
	mu        sync.Mutex // guards conn, connected, pending
	conn      *websocket.Conn
	connected bool
	pending   map[string]chan response
	seq       uint64
	done      chan struct{}
}

type request struct {
	ID   string          `json:"id"`
	Name string          `json:"name"`
	Msg  json.RawMessage `json:"msg,omitempty"`
}

type response struct {
	RequestID string          `json:"request_id"`
	Name      string          `json:"name"`
	Msg       json.RawMessage `json:"msg,omitempty"`
	Error     string          `json:"error,omitempty"`
}

// New creates a broker gateway client.
func New(cfg Config, log *applogger.Logger) *Client {
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 15 * time.Second
	}
	if cfg.PingInterval == 0 {
		cfg.PingInterval = 20 * time.Second
	}
	return &Client{
		cfg:     cfg,
		log:     log,
		pending: make(map[string]chan response),
	}
}

// Connect dials the broker, authenticates and starts the session loops.
func (c *Client) Connect(ctx context.Context) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.cfg.URL, nil)
	if err != nil {
		return &drepo.GatewayError{Op: "connect", Err: err}
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.readLoop()
	go c.pingLoop()

	auth := struct {
		Token string `json:"token"`
	}{Token: c.cfg.Token}
	if err := c.call(ctx, "authenticate", auth, nil); err != nil {
		_ = c.Close()
		return err
	}

	if err := c.SetBalanceType(c.cfg.BalanceType); err != nil {
		_ = c.Close()
		return err
	}

	c.log.Info("gateway connected",
		applogger.String("url", c.cfg.URL),
		applogger.String("balance_type", c.cfg.BalanceType))
	return nil
}

// GetBalance fetches the current account balance.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	if err := c.call(ctx, "get_balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

type wireCandle struct {
	Open   float64 `json:"open"`
	High   float64 `json:"max"`
	Low    float64 `json:"min"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
	From   int64   `json:"from"`
}

// GetCandles fetches count bars of the given timeframe ending at endTime.
func (c *Client) GetCandles(ctx context.Context, asset string, timeframe, count int, endTime time.Time) ([]models.Candle, error) {
	in := struct {
		Asset     string `json:"asset"`
		Timeframe int    `json:"timeframe"`
		Count     int    `json:"count"`
		To        int64  `json:"to"`
	}{Asset: asset, Timeframe: timeframe, Count: count, To: endTime.Unix()}

	var out struct {
		Candles []wireCandle `json:"candles"`
	}
	if err := c.call(ctx, "get_candles", in, &out); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(out.Candles))
	for _, wc := range out.Candles {
		candles = append(candles, models.Candle{
			Open:      wc.Open,
			High:      wc.High,
			Low:       wc.Low,
			Close:     wc.Close,
			Volume:    wc.Volume,
			Timestamp: wc.From,
		})
	}
	return candles, nil
}

// GetAvailableAssets lists the asset names the broker currently offers
// for trading.
func (c *Client) GetAvailableAssets(ctx context.Context) ([]string, error) {
	var out struct {
		Assets []string `json:"assets"`
	}
	if err := c.call(ctx, "get_assets", nil, &out); err != nil {
		return nil, err
	}
	return out.Assets, nil
}

// PlaceOrder submits a directional order with the given expiration in minutes.
func (c *Client) PlaceOrder(ctx context.Context, asset string, amount float64, direction models.Direction, expiration int) (models.OrderTicket, error) {
	in := struct {
		Asset      string  `json:"asset"`
		Amount     float64 `json:"amount"`
		Direction  string  `json:"direction"`
		Expiration int     `json:"expiration"`
	}{Asset: asset, Amount: amount, Direction: string(direction), Expiration: expiration}

	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := c.call(ctx, "place_order", in, &out); err != nil {
		return models.OrderTicket{}, err
	}
	if out.OrderID == "" {
		return models.OrderTicket{}, &drepo.GatewayError{Op: "place_order", Err: errors.New("broker rejected order")}
	}
	return models.OrderTicket{OrderID: out.OrderID}, nil
}

type wirePosition struct {
	Asset     string  `json:"asset"`
	Status    string  `json:"status"`
	Direction string  `json:"direction"`
	Amount    float64 `json:"amount"`
	Win       string  `json:"win"`
	Profit    float64 `json:"profit"`
}

// GetOpenPositions lists positions the broker currently tracks for this
// session, both open and recently closed.
func (c *Client) GetOpenPositions(ctx context.Context) ([]models.Position, error) {
	var out struct {
		Positions []wirePosition `json:"positions"`
	}
	if err := c.call(ctx, "get_positions", nil, &out); err != nil {
		return nil, err
	}

	positions := make([]models.Position, 0, len(out.Positions))
	for _, wp := range out.Positions {
		positions = append(positions, models.Position{
			Asset:     wp.Asset,
			Status:    wp.Status,
			Direction: models.Direction(wp.Direction),
			Amount:    wp.Amount,
			Win:       wp.Win == "win",
			Profit:    wp.Profit,
		})
	}
	return positions, nil
}

// SetBalanceType switches between PRACTICE and REAL accounts.
func (c *Client) SetBalanceType(balanceType string) error {
	in := struct {
		BalanceType string `json:"balance_type"`
	}{BalanceType: balanceType}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RequestTimeout)
	defer cancel()
	if err := c.call(ctx, "set_balance_type", in, nil); err != nil {
		return err
	}
	c.cfg.BalanceType = balanceType
	return nil
}

// IsConnected indicates session status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close shuts down the session and fails all in-flight requests.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return nil
	}
	c.connected = false
	close(c.done)
	for id, ch := range c.pending {
		ch <- response{RequestID: id, Error: "connection closed"}
		delete(c.pending, id)
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// call sends one request frame and waits for its correlated response.
func (c *Client) call(ctx context.Context, name string, in, out interface{}) error {
	c.mu.Lock()
	if !c.connected {
		c.mu.Unlock()
		return &drepo.GatewayError{Op: name, Err: ErrNotConnected}
	}
	c.seq++
	id := strconv.FormatUint(c.seq, 10)
	ch := make(chan response, 1)
	c.pending[id] = ch
	conn := c.conn
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		delete(c.pending, id)
		c.mu.Unlock()
	}()

	var msg json.RawMessage
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return &drepo.GatewayError{Op: name, Err: fmt.Errorf("marshal request: %w", err)}
		}
		msg = b
	}

	c.writeMu.Lock()
	err := conn.WriteJSON(request{ID: id, Name: name, Msg: msg})
	c.writeMu.Unlock()
	if err != nil {
		return &drepo.GatewayError{Op: name, Err: err}
	}

	timer := time.NewTimer(c.cfg.RequestTimeout)
	defer timer.Stop()

	select {
	case resp := <-ch:
		if resp.Error != "" {
			return &drepo.GatewayError{Op: name, Err: errors.New(resp.Error)}
		}
		if out != nil && len(resp.Msg) > 0 {
			if err := json.Unmarshal(resp.Msg, out); err != nil {
				return &drepo.GatewayError{Op: name, Err: fmt.Errorf("decode response: %w", err)}
			}
		}
		return nil
	case <-ctx.Done():
		return &drepo.GatewayError{Op: name, Err: ctx.Err()}
	case <-timer.C:
		return &drepo.GatewayError{Op: name, Err: ErrTimeout}
	}
}

func (c *Client) readLoop() {
	for {
		c.mu.Lock()
		conn, done := c.conn, c.done
		c.mu.Unlock()
		if conn == nil {
			return
		}

		_, b, err := conn.ReadMessage()
		if err != nil {
			select {
			case <-done:
				// closed on purpose
			default:
				c.log.Error("gateway read failed", applogger.Error(err))
				_ = c.Close()
				if c.cfg.ReconnectDelay > 0 {
					go c.reconnect()
				}
			}
			return
		}

		var resp response
		if err := json.Unmarshal(b, &resp); err != nil {
			c.log.Warn("gateway sent unparseable frame", applogger.Error(err))
			continue
		}
		if resp.RequestID == "" {
			// unsolicited push frames are not part of the call contract
			continue
		}

		c.mu.Lock()
		ch, ok := c.pending[resp.RequestID]
		if ok {
			delete(c.pending, resp.RequestID)
		}
		c.mu.Unlock()
		if ok {
			ch <- resp
		}
	}
}

// reconnect re-dials after an unexpected session drop.
func (c *Client) reconnect() {
	time.Sleep(c.cfg.ReconnectDelay)
	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.RequestTimeout)
	defer cancel()
	if err := c.Connect(ctx); err != nil {
		c.log.Error("gateway reconnect failed", applogger.Error(err))
	}
}

func (c *Client) pingLoop() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer ticker.Stop()

	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			conn := c.conn
			c.mu.Unlock()
			if conn != nil {
				c.writeMu.Lock()
				_ = conn.WriteMessage(websocket.PingMessage, nil)
				c.writeMu.Unlock()
			}
		}
	}
}
