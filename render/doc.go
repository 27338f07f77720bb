// Package render applies platelet directives to HTML templates.
//
// A template is ordinary HTML whose attributes and text carry expressions:
//
//	<ul>
//	  <li pl-for="(item, i) in items" ^class="i % 2 ? 'odd' : 'even'">{{ item.name }}</li>
//	</ul>
//	<p pl-if="len(items) == 0">nothing here</p>
//	<p pl-else>{{ len(items) }} items</p>
//
// Directives are applied per element in a fixed order: pl-if, pl-else-if,
// pl-else, pl-for, pl-is, pl-html, pl-src, pl-slot, then ^attribute
// bindings, children, and finally deduplication of repeated style and
// script blocks. Templates include one another with pl-src and pass content
// through pl-slot.
package render
