package segment

import (
	"regexp"
	"strings"
)

// TagGroup is a named set of synonyms. A chunk whose lowercased content
// contains any keyword is tagged with the group name.
type TagGroup struct {
	Name     string
	Keywords []string
}

// DefaultTaxonomy is the genetics textbook keyword taxonomy.
var DefaultTaxonomy = []TagGroup{
	{"基因", []string{"基因", "dna", "rna", "蛋白质", "氨基酸", "核苷酸", "基因组"}},
	{"染色体", []string{"染色体", "染色质", "着丝粒", "端粒", "同源染色体"}},
	{"遗传", []string{"遗传", "孟德尔", "分离定律", "自由组合", "伴性遗传", "连锁"}},
	{"突变", []string{"突变", "基因突变", "点突变", "插入", "缺失", "重复", "倒位"}},
	{"表达", []string{"表达", "转录", "翻译", "调控", "启动子", "增强子", "沉默子"}},
	{"复制", []string{"复制", "dna复制", "半保留", "复制叉", "冈崎片段"}},
	{"重组", []string{"重组", "交叉", "互换", "同源重组", "位点特异性重组"}},
	{"细胞", []string{"细胞", "细胞核", "细胞质", "细胞分裂", "有丝分裂", "减数分裂"}},
	{"群体", []string{"群体", "基因频率", "基因型频率", "哈代-温伯格", "遗传漂变"}},
	{"表观", []string{"表观", "甲基化", "乙酰化", "组蛋白", "染色质重塑"}},
	{"进化", []string{"进化", "自然选择", "适应", "物种", "分类"}},
	{"技术", []string{"pcr", "电泳", "克隆", "载体", "酶切", "测序", "crispr"}},
}

// chapterMarker matches ordinal chapter references such as "第三章".
var chapterMarker = regexp.MustCompile(`[\x{4e00}-\x{9fa5}]*第[\x{4e00}-\x{9fa5}]+[\d一二三四五六七八九十百千]+章`)

// ExtractTags returns the taxonomy groups hit by content, followed by any
// chapter markers with their 第/章 characters stripped. Duplicates are removed
// and first-seen order is kept.
func ExtractTags(content string, taxonomy []TagGroup) []string {
	lower := strings.ToLower(content)
	seen := make(map[string]bool)
	var tags []string
	add := func(tag string) {
		if tag == "" || seen[tag] {
			return
		}
		seen[tag] = true
		tags = append(tags, tag)
	}

	for _, g := range taxonomy {
		for _, kw := range g.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				add(g.Name)
				break
			}
		}
	}

	for _, m := range chapterMarker.FindAllString(content, -1) {
		add(strings.NewReplacer("第", "", "章", "").Replace(m))
	}
	return tags
}
