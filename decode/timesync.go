package decode

import (
	"gopkg.in/yaml.v3"

	"github.com/timzifer/ecunet/check"
	"github.com/timzifer/ecunet/model"
	"github.com/timzifer/ecunet/validation"
)

func ptpConfig(n *yaml.Node, c *validation.Collector) *model.PTPConfig {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	cfg := &model.PTPConfig{CMLDSLinkPortEnabled: o.boolean("cmlds_linkport_enabled", false, false)}
	o.each("ptp_ports", false, func(n *yaml.Node, c *validation.Collector) {
		if p, ok := ptpPort(n, c); ok {
			cfg.Ports = append(cfg.Ports, p)
		}
	})
	return cfg
}

func ptpPort(n *yaml.Node, c *validation.Collector) (model.PTPPort, bool) {
	o, ok := asObject(n, c)
	if !ok {
		return model.PTPPort{}, false
	}
	defer o.done()
	p := model.PTPPort{
		DomainID:        o.integer("domain_id", true, 0),
		SrcPortIdentity: o.integer("src_port_identity", true, 0),
	}
	c.Key("domain_id").Add(check.NonNegative("domain_id", p.DomainID))
	c.Key("src_port_identity").Add(check.NonNegative("src_port_identity", p.SrcPortIdentity))
	if sn, sc, ok := o.required("sync_config"); ok {
		p.Sync = syncConfig(sn, sc)
	}
	if pn, pc, ok := o.optional("pdelay_config"); ok {
		po, ok := asObject(pn, pc)
		if ok {
			period := po.integer("log_tx_period", true, 0)
			po.done()
			pc.Key("log_tx_period").Add(check.IntRange("log_tx_period", period, check.MinPdelayLogTxPeriod, check.MaxPdelayLogTxPeriod))
			p.Pdelay = &model.PdelayConfig{LogTxPeriod: period}
		}
	}
	return p, true
}

func syncConfig(n *yaml.Node, c *validation.Collector) model.SyncConfig {
	o, ok := asObject(n, c)
	if !ok {
		return nil
	}
	defer o.done()
	typ, ok := tag(o, "type", string(model.SyncTimeTransmitter), string(model.SyncTimeReceiver))
	if !ok {
		return nil
	}
	if model.SyncType(typ) == model.SyncTimeTransmitter {
		tx := model.TimeTransmitter{
			LogTxPeriod: o.integer("log_tx_period", true, 0),
			TwoStep:     o.boolean("two_step", false, true),
		}
		c.Key("log_tx_period").Add(check.IntRange("log_tx_period", tx.LogTxPeriod, check.MinSyncLogTxPeriod, check.MaxSyncLogTxPeriod))
		return tx
	}
	return model.TimeReceiver{
		SyncTimeout:         o.integer("sync_timeout", true, 0),
		SyncFollowupTimeout: o.integer("sync_followup_timeout", true, 0),
	}
}
