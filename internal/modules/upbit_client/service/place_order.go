package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"upbit_bot/internal/helper"
	"upbit_bot/internal/models"
)

// PlaceLimitOrder — лимитный ордер (POST /orders). Без повторов: ошибка
// возвращается как *models.GatewayError после первой же попытки.
func (c *Client) PlaceLimitOrder(ctx context.Context, market string, side models.OrderSide, price, volume float64) (models.OrderResult, error) {
	const op = "PlaceLimitOrder"

	order, err := c.buildOrder(market, side, price, volume)
	if err != nil {
		c.m.OrdersTotal.WithLabelValues(string(side), "rejected").Inc()
		return models.OrderResult{}, gatewayError(op, err)
	}

	payload, err := sonic.Marshal(order)
	if err != nil {
		return models.OrderResult{}, gatewayError(op, fmt.Errorf("encode order: %w", err))
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/orders", "", bytes.NewReader(payload))
	if err != nil {
		return models.OrderResult{}, gatewayError(op, err)
	}
	if err := c.authorize(req, order.query()); err != nil {
		c.m.OrdersTotal.WithLabelValues(string(side), "error").Inc()
		return models.OrderResult{}, gatewayError(op, err)
	}

	body, err := c.do(req, op)
	if err != nil {
		ge := gatewayError(op, err)
		c.m.OrdersTotal.WithLabelValues(string(side), "error").Inc()
		c.log.Error("[ORDER] rejected",
			zap.String("market", market),
			zap.String("side", string(side)),
			zap.String("price", order.Price),
			zap.String("volume", order.Volume),
			zap.Int("status", ge.Status),
			zap.Error(ge),
		)
		return models.OrderResult{}, ge
	}

	var dto orderDTO
	if err := sonic.Unmarshal(body, &dto); err != nil {
		// ордер скорее всего принят, но подтверждение не разобрать
		c.m.OrdersTotal.WithLabelValues(string(side), "error").Inc()
		return models.OrderResult{Raw: body}, gatewayError(op, fmt.Errorf("decode order: %w", err))
	}

	res := models.OrderResult{
		UUID:    dto.UUID,
		Side:    models.OrderSide(dto.Side),
		OrdType: dto.OrdType,
		Price:   dto.Price,
		Volume:  dto.Volume,
		State:   dto.State,
		Market:  dto.Market,
		Raw:     body,
	}
	if ts, err := time.Parse(time.RFC3339, dto.CreatedAt); err == nil {
		res.CreatedAt = ts
	}

	c.m.OrdersTotal.WithLabelValues(string(side), "ok").Inc()
	c.log.Info("[ORDER] placed",
		zap.String("market", market),
		zap.String("side", string(side)),
		zap.String("price", order.Price),
		zap.String("volume", order.Volume),
		zap.String("uuid", res.UUID),
	)
	return res, nil
}

// buildOrder приводит цену и объём к строкам без экспоненты; для KRW-рынков
// цена округляется к шагу: покупка вниз, продажа вверх.
func (c *Client) buildOrder(market string, side models.OrderSide, price, volume float64) (orderRequest, error) {
	if side != models.OrderSideBid && side != models.OrderSideAsk {
		return orderRequest{}, fmt.Errorf("unknown side %q", side)
	}
	if price <= 0 || volume <= 0 {
		return orderRequest{}, fmt.Errorf("price and volume must be positive: price=%v volume=%v", price, volume)
	}

	p := decimal.NewFromFloat(price)
	if c.roundToTick && helper.QuoteCurrency(market) == "KRW" {
		tick := helper.KRWTickSize(p)
		if side == models.OrderSideBid {
			p = helper.RoundDownToTick(p, tick)
		} else {
			p = helper.RoundUpToTick(p, tick)
		}
		if !p.IsPositive() {
			return orderRequest{}, fmt.Errorf("price %v rounds to zero", price)
		}
	}

	return orderRequest{
		Market:  market,
		Side:    string(side),
		Volume:  decimal.NewFromFloat(volume).String(),
		Price:   p.String(),
		OrdType: models.OrdTypeLimit,
	}, nil
}

// query — строка для query_hash, поля в порядке тела запроса.
func (o orderRequest) query() string {
	return strings.Join([]string{
		"market=" + o.Market,
		"side=" + o.Side,
		"volume=" + o.Volume,
		"price=" + o.Price,
		"ord_type=" + o.OrdType,
	}, "&")
}
